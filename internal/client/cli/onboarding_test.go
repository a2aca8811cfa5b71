package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wellnoosh/wellnoosh/internal/common"
)

// The scripted answers follow the question order of Onboarding: name, age,
// gender, weight, height, diet style, allergies, medical conditions,
// activity level, health goals, cooking skill.
func TestOnboarding_FullRun(t *testing.T) {
	ctx := context.Background()
	input := strings.Join([]string{
		"Alice Smith", // full name
		"30",          // age
		"1",           // gender: female
		"70 kg",       // weight
		"175 cm",      // height
		"2",           // diet style: vegetarian
		"1,3",         // allergies: nuts, gluten
		"",            // medical conditions: skip
		"3",           // activity: moderate
		"",            // health goals: skip
		"1",           // cooking: beginner
	}, "\n") + "\n"

	app, _ := newTestApp(t, input)
	require.NoError(t, app.Onboarding(ctx))

	p, err := app.prefs.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, "Alice Smith", *p.FullName)
	require.Equal(t, 30, *p.Age)
	require.Equal(t, "female", *p.Gender)
	require.Equal(t, 70.0, *p.Weight)
	require.Equal(t, "kg", *p.WeightUnit)
	require.Equal(t, 175.0, *p.Height)
	require.Equal(t, "cm", *p.HeightUnit)
	require.Equal(t, []string{"vegetarian"}, p.DietStyle)
	require.Equal(t, []string{"nuts", "gluten"}, p.Allergies)
	require.Empty(t, p.MedicalConditions)
	require.Equal(t, "moderate", *p.ActivityLevel)
	require.Empty(t, p.HealthGoals)
	require.Equal(t, "beginner", *p.CookingSkill)

	require.True(t, p.Completed())
	require.NotNil(t, p.OnboardingCompletedAt)

	done, err := app.prefs.IsCompleted(ctx, common.KeyOnboardingCompleted)
	require.NoError(t, err)
	require.True(t, done)
}

func TestOnboarding_SkipEverythingStillCompletes(t *testing.T) {
	ctx := context.Background()
	input := strings.Repeat("\n", 11)

	app, _ := newTestApp(t, input)
	require.NoError(t, app.Onboarding(ctx))

	p, err := app.prefs.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, p.FullName)
	require.True(t, p.Completed())
}

func TestOnboarding_RerunOverwritesPerField(t *testing.T) {
	ctx := context.Background()
	first := strings.Join([]string{
		"Alice", "", "", "", "", "3", "", "", "", "", "",
	}, "\n") + "\n"

	app, _ := newTestApp(t, first)
	require.NoError(t, app.Onboarding(ctx))

	// Second pass changes diet style only; the name from the first pass
	// survives because skipped answers write nothing.
	app.reader = rdr(strings.Join([]string{
		"", "", "", "", "", "1", "", "", "", "", "",
	}, "\n") + "\n")
	require.NoError(t, app.Onboarding(ctx))

	p, err := app.prefs.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Alice", *p.FullName)
	require.Equal(t, []string{"omnivore"}, p.DietStyle)
}

func TestFeatureSlides_MarkedSeenOnce(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t, "")

	require.NoError(t, app.FeatureSlides(ctx))

	seen, err := app.prefs.IsCompleted(ctx, common.KeyFeatureSlidesSeen)
	require.NoError(t, err)
	require.True(t, seen)

	// Second viewing is a no-op.
	require.NoError(t, app.FeatureSlides(ctx))
}
