package provider

// #region imports
import (
	"context"
	"fmt"
)

// #endregion

// #region fake

// Fake is a deterministic in-memory Analyzer for tests and offline
// runs. Unknown video ids fall back to Default when set.
type Fake struct {
	Analyses map[string]Analysis
	Default  *Analysis
	Err      error
}

// Analyze returns the canned analysis for the video id.
func (f *Fake) Analyze(ctx context.Context, videoID string) (Analysis, error) {
	if f.Err != nil {
		return Analysis{}, f.Err
	}
	if a, ok := f.Analyses[videoID]; ok {
		a.VideoID = videoID
		return a, nil
	}
	if f.Default != nil {
		a := *f.Default
		a.VideoID = videoID
		return a, nil
	}
	return Analysis{}, fmt.Errorf("fake provider: no analysis for video %s", videoID)
}

// #endregion fake
