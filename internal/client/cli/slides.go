package cli

import (
	"context"
	"fmt"

	"github.com/wellnoosh/wellnoosh/internal/common"
)

var featureSlides = []string{
	"Snap a photo of any meal and get instant nutrition facts.",
	"Daily meal recommendations tuned to your goals and allergies.",
	"Track your progress with weekly summaries.",
}

// FeatureSlides shows the post-auth feature tour once. After the first
// viewing a marker is persisted and subsequent calls skip the tour.
func (a *App) FeatureSlides(ctx context.Context) error {
	seen, err := a.prefs.IsCompleted(ctx, common.KeyFeatureSlidesSeen)
	if err != nil {
		return err
	}
	if seen {
		fmt.Println("You have already seen the feature tour.")
		return nil
	}

	for i, slide := range featureSlides {
		fmt.Printf("[%d/%d] %s\n", i+1, len(featureSlides), slide)
	}

	if err := a.prefs.MarkCompleted(ctx, common.KeyFeatureSlidesSeen); err != nil {
		return err
	}
	return nil
}
