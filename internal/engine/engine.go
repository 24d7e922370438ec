// Package engine wires the full submission pipeline: provider analysis
// → signal interpretation → campaign validation → mob classification →
// atomic persistence.
package engine

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/goccy/go-json"
	"github.com/sethvargo/go-retry"

	"github.com/dairylabs/milkmob/internal/mob"
	"github.com/dairylabs/milkmob/internal/provider"
	"github.com/dairylabs/milkmob/internal/signals"
	"github.com/dairylabs/milkmob/internal/state"
	"github.com/dairylabs/milkmob/internal/tags"
	"github.com/dairylabs/milkmob/internal/validate"
)

// #endregion

// #region options

// Options configures the engine. Zero values fall back to defaults.
type Options struct {
	Rules        signals.RuleTable
	Policy       validate.Policy
	Catalog      mob.Catalog
	CampaignTags []string

	// StoreTimeout bounds each persistence attempt.
	StoreTimeout time.Duration
	// RetryAttempts is the number of retries after the first attempt
	// when persistence reports a retryable conflict.
	RetryAttempts uint64
	// RetryBase is the initial exponential backoff step.
	RetryBase time.Duration
	// IdempotentResubmit makes re-submitting a classified video return
	// its existing assignment instead of a duplicate error.
	IdempotentResubmit bool
}

// DefaultOptions returns the stock engine configuration.
func DefaultOptions() Options {
	return Options{
		Rules:         signals.DefaultRuleTable(),
		Policy:        validate.DefaultPolicy(),
		Catalog:       mob.DefaultCatalog(),
		CampaignTags:  tags.DefaultCampaignTags(),
		StoreTimeout:  5 * time.Second,
		RetryAttempts: 3,
		RetryBase:     50 * time.Millisecond,
	}
}

// #endregion options

// #region submission

// Submission is one incoming video post.
type Submission struct {
	VideoID  string
	Caption  string
	Hashtags []string
}

// Result is the engine's output for one submission. Assignment is nil
// when validation failed.
type Result struct {
	VideoID    string
	Tags       tags.Detection
	Verdict    validate.Verdict
	Message    string
	Assignment *mob.Assignment
	Related    []provider.RelatedVideo
}

// #endregion submission

// #region engine

// Engine coordinates one submission through the pipeline.
type Engine struct {
	opts       Options
	analyzer   provider.Analyzer
	interp     *signals.Interpreter
	validator  *validate.Validator
	classifier *mob.Classifier
	store      *state.Store
	detector   *tags.Detector
}

// New creates a fully wired engine and seeds the stats rows for every
// catalog entry.
func New(ctx context.Context, opts Options, analyzer provider.Analyzer, store *state.Store) (*Engine, error) {
	defaults := DefaultOptions()
	if opts.Rules.Rules == nil && opts.Rules.RelevantTerms == nil {
		opts.Rules = defaults.Rules
	}
	if opts.Policy.Criteria == nil {
		opts.Policy = defaults.Policy
	}
	if opts.Catalog == nil {
		opts.Catalog = defaults.Catalog
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaults.StoreTimeout
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaults.RetryBase
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = defaults.RetryAttempts
	}

	if err := store.InitCatalog(ctx, opts.Catalog); err != nil {
		return nil, fmt.Errorf("seed catalog stats: %w", err)
	}

	return &Engine{
		opts:       opts,
		analyzer:   analyzer,
		interp:     signals.NewInterpreter(opts.Rules),
		validator:  validate.NewValidator(opts.Policy),
		classifier: mob.NewClassifier(opts.Catalog, store),
		store:      store,
		detector:   tags.NewDetector(opts.CampaignTags),
	}, nil
}

// Catalog returns the active mob catalog.
func (e *Engine) Catalog() mob.Catalog {
	return e.classifier.Catalog()
}

// Store returns the underlying stats store.
func (e *Engine) Store() *state.Store {
	return e.store
}

// #endregion engine

// #region process

// Process runs one submission end to end. Validation failures are a
// normal outcome, not an error: the verdict with its full per-criterion
// breakdown comes back either way. Persistence conflicts are retried
// with exponential backoff; a surviving conflict surfaces to the caller
// as retryable.
func (e *Engine) Process(ctx context.Context, sub Submission) (Result, error) {
	tagResult := e.detector.Detect(sub.Caption, sub.Hashtags)
	if tagResult.CampaignTagged {
		// Tag tallies are analytics, never a reason to fail a submission.
		if err := e.store.IncrementTags(ctx, tagResult.CampaignTags); err != nil {
			log.Printf("[ENGINE] tag tally failed video=%s: %v", sub.VideoID, err)
		}
	}

	analysis, err := e.analyzer.Analyze(ctx, sub.VideoID)
	if err != nil {
		return Result{}, fmt.Errorf("analyze video %s: %w", sub.VideoID, err)
	}

	sigs := e.interp.Interpret(signals.Input{
		Detections:    toSignalDetections(analysis.Detections),
		SummaryText:   analysis.Summary,
		Assessment:    analysis.CreativeAssessment,
		AudioFindings: toSignalAudio(analysis.AudioFindings),
	})
	verdict := e.validator.Validate(sigs)

	result := Result{
		VideoID: sub.VideoID,
		Tags:    tagResult,
		Verdict: verdict,
		Message: e.validator.Message(verdict),
		Related: analysis.Related,
	}

	verdictJSON, _ := json.Marshal(verdict)
	if !verdict.Passed {
		log.Printf("[ENGINE] rejected video=%s failed=%v", sub.VideoID, verdict.FailedCriteria)
		e.audit(ctx, sub.VideoID, "rejected", string(verdictJSON), result.Message)
		return result, nil
	}

	assignment, err := e.classifyWithRetry(ctx, sub.VideoID, analysis.Summary, sigs, verdict)
	if err != nil {
		if errors.Is(err, state.ErrDuplicateSubmission) && e.opts.IdempotentResubmit {
			lookupCtx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
			existing, lookupErr := e.store.Assignment(lookupCtx, sub.VideoID)
			cancel()
			if lookupErr == nil {
				result.Assignment = &existing
				return result, nil
			}
		}
		return result, err
	}

	result.Assignment = &assignment
	e.audit(ctx, sub.VideoID, "classified", string(verdictJSON), "assigned to "+assignment.CategoryID)
	return result, nil
}

// #endregion process

// #region classify-retry

// classifyWithRetry bounds each persistence attempt with the store
// timeout and retries conflicts with exponential backoff. Duplicate
// submissions and policy violations are not retryable.
func (e *Engine) classifyWithRetry(ctx context.Context, videoID, summary string, sigs []signals.AnalysisSignal, verdict validate.Verdict) (mob.Assignment, error) {
	var assignment mob.Assignment
	backoff := retry.WithMaxRetries(e.opts.RetryAttempts, retry.NewExponential(e.opts.RetryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		opCtx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
		defer cancel()

		a, err := e.classifier.Classify(opCtx, videoID, summary, sigs, verdict)
		if err != nil {
			if errors.Is(err, state.ErrConflict) || errors.Is(err, context.DeadlineExceeded) {
				log.Printf("[ENGINE] retryable conflict video=%s: %v", videoID, err)
				return retry.RetryableError(err)
			}
			return err
		}
		assignment = a
		return nil
	})
	return assignment, err
}

// #endregion classify-retry

// #region audit

// audit appends to the submission trail; failures are logged, never
// surfaced, so auditing cannot break a committed decision.
func (e *Engine) audit(ctx context.Context, videoID, decision, verdictJSON, reason string) {
	err := e.store.AppendAudit(ctx, state.AuditEntry{
		VideoID:     videoID,
		Decision:    decision,
		VerdictJSON: verdictJSON,
		Reason:      reason,
	})
	if err != nil {
		log.Printf("[ENGINE] audit append failed video=%s: %v", videoID, err)
	}
}

// #endregion audit

// #region converters

func toSignalDetections(in []provider.Detection) []signals.Detection {
	out := make([]signals.Detection, len(in))
	for i, d := range in {
		out[i] = signals.Detection{Label: d.Label, Score: d.Score}
	}
	return out
}

func toSignalAudio(in []provider.AudioFinding) []signals.AudioFinding {
	out := make([]signals.AudioFinding, len(in))
	for i, f := range in {
		out[i] = signals.AudioFinding{Text: f.Text, Confidence: f.Confidence}
	}
	return out
}

// #endregion converters
