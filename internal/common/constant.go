// Package common contains shared constants and sentinel errors used across
// Wellnoosh components.
package common

// Local storage keys. The exact strings are load-bearing: devices upgraded
// from earlier releases already hold data under these names.
const (
	// KeyUserData holds the locally persisted user profile blob (JSON).
	KeyUserData = "wellnoosh_user_data"

	// KeySession caches the last known auth session for restore on startup.
	KeySession = "wellnoosh_session"

	// KeyOnboardingCompleted marks the onboarding flow as finished.
	KeyOnboardingCompleted = "wellnoosh_onboarding_completed"

	// KeyFeatureSlidesSeen marks the post-auth feature slides as seen.
	KeyFeatureSlidesSeen = "wellnoosh_feature_slides_seen"

	// KeyProfileCompletionCompleted marks the profile-completion step done.
	KeyProfileCompletionCompleted = "wellnoosh_profile_completion_completed"

	// KeyMealRecommendationsCompleted marks the meal-recommendations intro done.
	KeyMealRecommendationsCompleted = "wellnoosh_meal_recommendations_completed"
)
