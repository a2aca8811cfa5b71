// Package prefs implements the Local Preference Store: durable persistence
// of the partially-filled user profile collected during onboarding. The
// whole profile lives as one JSON blob under a single key; every field is
// optional until onboarding completes.
package prefs

// Weight and height units accepted by the profile.
const (
	UnitKg  = "kg"
	UnitLbs = "lbs"
	UnitCm  = "cm"
	UnitFt  = "ft"
)

// Profile is the locally persisted user record. Pointer and slice fields
// distinguish "not provided" from zero values; the same type doubles as the
// partial-update payload for Store.Update.
type Profile struct {
	// Basic info
	FullName   *string  `json:"fullName,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Age        *int     `json:"age,omitempty"`
	Gender     *string  `json:"gender,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	WeightUnit *string  `json:"weightUnit,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	HeightUnit *string  `json:"heightUnit,omitempty"`

	// Onboarding data
	DietStyle         []string `json:"dietStyle,omitempty"`
	Allergies         []string `json:"allergies,omitempty"`
	HealthGoals       []string `json:"healthGoals,omitempty"`
	ActivityLevel     *string  `json:"activityLevel,omitempty"`
	MedicalConditions []string `json:"medicalConditions,omitempty"`
	CookingSkill      *string  `json:"cookingSkill,omitempty"`
	MealPreferences   []string `json:"mealPreferences,omitempty"`

	// Completion status
	OnboardingCompleted   *bool   `json:"onboardingCompleted,omitempty"`
	OnboardingCompletedAt *string `json:"onboardingCompletedAt,omitempty"`
}

// merge applies p's set fields over base, field by field. Later writes win
// wholesale per field; slices replace, they never union.
func (base *Profile) merge(p Profile) {
	if p.FullName != nil {
		base.FullName = p.FullName
	}
	if p.Email != nil {
		base.Email = p.Email
	}
	if p.Age != nil {
		base.Age = p.Age
	}
	if p.Gender != nil {
		base.Gender = p.Gender
	}
	if p.Weight != nil {
		base.Weight = p.Weight
	}
	if p.WeightUnit != nil {
		base.WeightUnit = p.WeightUnit
	}
	if p.Height != nil {
		base.Height = p.Height
	}
	if p.HeightUnit != nil {
		base.HeightUnit = p.HeightUnit
	}
	if p.DietStyle != nil {
		base.DietStyle = p.DietStyle
	}
	if p.Allergies != nil {
		base.Allergies = p.Allergies
	}
	if p.HealthGoals != nil {
		base.HealthGoals = p.HealthGoals
	}
	if p.ActivityLevel != nil {
		base.ActivityLevel = p.ActivityLevel
	}
	if p.MedicalConditions != nil {
		base.MedicalConditions = p.MedicalConditions
	}
	if p.CookingSkill != nil {
		base.CookingSkill = p.CookingSkill
	}
	if p.MealPreferences != nil {
		base.MealPreferences = p.MealPreferences
	}
	if p.OnboardingCompleted != nil {
		base.OnboardingCompleted = p.OnboardingCompleted
	}
	if p.OnboardingCompletedAt != nil {
		base.OnboardingCompletedAt = p.OnboardingCompletedAt
	}
}

// Completed reports whether onboarding has been finished on this device.
func (p *Profile) Completed() bool {
	return p.OnboardingCompleted != nil && *p.OnboardingCompleted
}

// Ptr returns a pointer to v; shorthand for building partial updates.
func Ptr[T any](v T) *T { return &v }
