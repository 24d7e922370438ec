package provider

// #region imports
import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// #endregion

// #region rest-client

// RESTAnalyzer talks to a video-understanding REST API. The four
// per-video resources are fetched concurrently.
type RESTAnalyzer struct {
	baseURL          string
	apiKey           string
	client           *http.Client
	maxResponseBytes int64
}

// NewRESTAnalyzer creates a client for the given API base URL.
func NewRESTAnalyzer(baseURL, apiKey string, timeout time.Duration) *RESTAnalyzer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RESTAnalyzer{
		baseURL:          baseURL,
		apiKey:           apiKey,
		maxResponseBytes: 4 * 1024 * 1024,
		client:           &http.Client{Timeout: timeout},
	}
}

// #endregion rest-client

// #region analyze

// Analyze fetches detections, summary, audio findings, and related
// videos for one video id. A missing resource (404) degrades to an
// empty section rather than failing the whole analysis; the interpreter
// handles absence explicitly.
func (r *RESTAnalyzer) Analyze(ctx context.Context, videoID string) (Analysis, error) {
	analysis := Analysis{VideoID: videoID}

	var summary struct {
		Summary            string `json:"summary"`
		CreativeAssessment string `json:"creative_assessment"`
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.get(ctx, fmt.Sprintf("/videos/%s/detections", videoID), &analysis.Detections)
	})
	g.Go(func() error {
		return r.get(ctx, fmt.Sprintf("/videos/%s/summary", videoID), &summary)
	})
	g.Go(func() error {
		return r.get(ctx, fmt.Sprintf("/videos/%s/audio", videoID), &analysis.AudioFindings)
	})
	g.Go(func() error {
		return r.get(ctx, fmt.Sprintf("/videos/%s/related", videoID), &analysis.Related)
	})
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}

	analysis.Summary = summary.Summary
	analysis.CreativeAssessment = summary.CreativeAssessment
	return analysis, nil
}

// #endregion analyze

// #region get

func (r *RESTAnalyzer) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	if r.apiKey != "" {
		req.Header.Set("x-api-key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read provider response %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider get %s: status %d: %s", path, resp.StatusCode, truncate(body, 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode provider response %s: %w", path, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// #endregion get
