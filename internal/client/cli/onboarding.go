package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wellnoosh/wellnoosh/internal/client/prefs"
	"github.com/wellnoosh/wellnoosh/internal/common"
)

var (
	dietStyleOptions = []string{"omnivore", "vegetarian", "vegan", "pescatarian", "keto", "paleo"}
	allergyOptions   = []string{"nuts", "dairy", "gluten", "shellfish", "eggs", "soy"}
	goalOptions      = []string{"lose weight", "gain muscle", "eat healthier", "more energy", "manage condition"}
	activityOptions  = []string{"sedentary", "light", "moderate", "active", "very active"}
	skillOptions     = []string{"beginner", "intermediate", "advanced"}
	genderOptions    = []string{"female", "male", "other", "prefer not to say"}
)

// Onboarding walks the user through the profile questions. Every step is
// persisted as soon as it is answered, so quitting halfway keeps the answers
// given so far; re-running resumes with a fresh pass over the questions.
func (a *App) Onboarding(ctx context.Context) error {
	fmt.Println("Let's set up your profile. Press Enter to skip any question.")

	if err := a.onboardingBasicInfo(ctx); err != nil {
		return err
	}

	steps := []func(context.Context) error{
		a.onboardingDietStyle,
		a.onboardingAllergies,
		a.onboardingMedical,
		a.onboardingActivity,
		a.onboardingGoals,
		a.onboardingCooking,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}

	if _, err := a.prefs.SaveOnboardingCompletion(ctx, prefs.Profile{}); err != nil {
		fmt.Println("Saving completion failed:", err)
		return err
	}

	fmt.Println("All set! Your profile is complete.")
	return nil
}

func (a *App) onboardingBasicInfo(ctx context.Context) error {
	var p prefs.Profile

	name, err := getSimpleText(a.reader, "Your full name", os.Stdout)
	if err != nil {
		return err
	}
	if name != "" {
		p.FullName = prefs.Ptr(name)
	}

	if ageText, err := getSimpleText(a.reader, "Your age", os.Stdout); err != nil {
		return err
	} else if ageText != "" {
		age, err := strconv.Atoi(ageText)
		if err != nil || age <= 0 {
			fmt.Println("Skipping age: not a number")
		} else {
			p.Age = prefs.Ptr(age)
		}
	}

	gender, err := GetChoice(a.reader, "Gender", genderOptions, os.Stdout)
	if err != nil {
		return err
	}
	if gender != "" {
		p.Gender = prefs.Ptr(gender)
	}

	if err := a.readMeasurement(&p); err != nil {
		return err
	}

	if s := a.sessions.Session(); s != nil {
		p.Email = prefs.Ptr(s.User.Email)
	}

	return a.saveStep(ctx, p)
}

// readMeasurement reads weight and height with their units, e.g. "70 kg" or
// "154 lbs". Blank answers skip the field.
func (a *App) readMeasurement(p *prefs.Profile) error {
	weight, unit, err := a.readValueWithUnit("Your weight (e.g. 70 kg or 154 lbs)", prefs.UnitKg, prefs.UnitLbs)
	if err != nil {
		return err
	}
	if unit != "" {
		p.Weight = prefs.Ptr(weight)
		p.WeightUnit = prefs.Ptr(unit)
	}

	height, unit, err := a.readValueWithUnit("Your height (e.g. 175 cm or 5.8 ft)", prefs.UnitCm, prefs.UnitFt)
	if err != nil {
		return err
	}
	if unit != "" {
		p.Height = prefs.Ptr(height)
		p.HeightUnit = prefs.Ptr(unit)
	}
	return nil
}

func (a *App) readValueWithUnit(prompt string, units ...string) (float64, string, error) {
	for {
		line, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return 0, "", err
		}
		if line == "" {
			return 0, "", nil
		}

		parts := strings.Fields(line)
		if len(parts) == 2 {
			value, err := strconv.ParseFloat(parts[0], 64)
			if err == nil && value > 0 {
				for _, u := range units {
					if strings.EqualFold(parts[1], u) {
						return value, u, nil
					}
				}
			}
		}
		fmt.Printf("Expected a number followed by %s\n", strings.Join(units, " or "))
	}
}

func (a *App) onboardingDietStyle(ctx context.Context) error {
	picked, err := GetMultiChoice(a.reader, "Diet style", dietStyleOptions, os.Stdout)
	if err != nil {
		return err
	}
	if picked == nil {
		return nil
	}
	return a.saveStep(ctx, prefs.Profile{DietStyle: picked})
}

func (a *App) onboardingAllergies(ctx context.Context) error {
	picked, err := GetMultiChoice(a.reader, "Allergies", allergyOptions, os.Stdout)
	if err != nil {
		return err
	}
	if picked == nil {
		return nil
	}
	return a.saveStep(ctx, prefs.Profile{Allergies: picked})
}

func (a *App) onboardingMedical(ctx context.Context) error {
	line, err := getSimpleText(a.reader, "Medical conditions, comma-separated", os.Stdout)
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}

	var conditions []string
	for _, c := range strings.Split(line, ",") {
		if c = strings.TrimSpace(c); c != "" {
			conditions = append(conditions, c)
		}
	}
	return a.saveStep(ctx, prefs.Profile{MedicalConditions: conditions})
}

func (a *App) onboardingActivity(ctx context.Context) error {
	level, err := GetChoice(a.reader, "Activity level", activityOptions, os.Stdout)
	if err != nil {
		return err
	}
	if level == "" {
		return nil
	}
	return a.saveStep(ctx, prefs.Profile{ActivityLevel: prefs.Ptr(level)})
}

func (a *App) onboardingGoals(ctx context.Context) error {
	picked, err := GetMultiChoice(a.reader, "Health goals", goalOptions, os.Stdout)
	if err != nil {
		return err
	}
	if picked == nil {
		return nil
	}
	return a.saveStep(ctx, prefs.Profile{HealthGoals: picked})
}

func (a *App) onboardingCooking(ctx context.Context) error {
	skill, err := GetChoice(a.reader, "Cooking skill", skillOptions, os.Stdout)
	if err != nil {
		return err
	}
	if skill == "" {
		return nil
	}
	return a.saveStep(ctx, prefs.Profile{CookingSkill: prefs.Ptr(skill)})
}

func (a *App) saveStep(ctx context.Context, p prefs.Profile) error {
	if _, err := a.prefs.Update(ctx, p); err != nil {
		fmt.Println("Saving failed, your last answer was not recorded:", err)
		return err
	}
	return nil
}

// ShowProfile prints the stored profile and which one-time flows have been
// completed.
func (a *App) ShowProfile(ctx context.Context) error {
	p, err := a.prefs.Load(ctx)
	if err != nil {
		return err
	}

	printField := func(label string, v *string) {
		if v != nil {
			fmt.Printf("%-20s %s\n", label, *v)
		}
	}
	printList := func(label string, v []string) {
		if len(v) > 0 {
			fmt.Printf("%-20s %s\n", label, strings.Join(v, ", "))
		}
	}

	printField("Name", p.FullName)
	printField("Email", p.Email)
	if p.Age != nil {
		fmt.Printf("%-20s %d\n", "Age", *p.Age)
	}
	printField("Gender", p.Gender)
	if p.Weight != nil && p.WeightUnit != nil {
		fmt.Printf("%-20s %g %s\n", "Weight", *p.Weight, *p.WeightUnit)
	}
	if p.Height != nil && p.HeightUnit != nil {
		fmt.Printf("%-20s %g %s\n", "Height", *p.Height, *p.HeightUnit)
	}
	printList("Diet style", p.DietStyle)
	printList("Allergies", p.Allergies)
	printList("Medical conditions", p.MedicalConditions)
	printField("Activity level", p.ActivityLevel)
	printList("Health goals", p.HealthGoals)
	printField("Cooking skill", p.CookingSkill)
	printList("Meal preferences", p.MealPreferences)

	if p.Completed() {
		fmt.Printf("%-20s %s\n", "Onboarding", "completed")
	} else {
		fmt.Printf("%-20s %s\n", "Onboarding", "incomplete")
	}

	markers := []string{
		common.KeyFeatureSlidesSeen,
		common.KeyProfileCompletionCompleted,
		common.KeyMealRecommendationsCompleted,
	}
	for _, key := range markers {
		done, err := a.prefs.IsCompleted(ctx, key)
		if err != nil {
			return err
		}
		if done {
			fmt.Printf("%-20s %s\n", "Seen", key)
		}
	}
	return nil
}
