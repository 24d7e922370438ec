// Package provider is the boundary to the external video-understanding
// service. The engine only consumes Analysis values; upload and indexing
// stay on the provider's side of the fence.
package provider

// #region imports
import "context"

// #endregion

// #region types

// Detection is one tagged visual detection with a confidence-like score.
type Detection struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}

// AudioFinding is one transcript hit from the provider's audio search.
type AudioFinding struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
}

// RelatedVideo is an advisory similarity hit. Never consumed by
// validation or classification, only surfaced downstream.
type RelatedVideo struct {
	VideoID    string  `json:"video_id"`
	Similarity float32 `json:"similarity"`
}

// Analysis is everything the provider knows about one indexed video.
type Analysis struct {
	VideoID            string         `json:"video_id"`
	Detections         []Detection    `json:"detections"`
	Summary            string         `json:"summary"`
	CreativeAssessment string         `json:"creative_assessment"`
	AudioFindings      []AudioFinding `json:"audio_findings"`
	Related            []RelatedVideo `json:"related_videos"`
}

// #endregion types

// #region analyzer

// Analyzer fetches the provider's analysis for an already-indexed video.
type Analyzer interface {
	Analyze(ctx context.Context, videoID string) (Analysis, error)
}

// #endregion analyzer
