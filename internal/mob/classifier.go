package mob

// #region imports
import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dairylabs/milkmob/internal/signals"
	"github.com/dairylabs/milkmob/internal/validate"
)

// #endregion

// #region classifier

// Classifier assigns validated videos to mob categories and keeps the
// per-category tallies current through the store.
type Classifier struct {
	catalog Catalog
	store   Store
}

// NewClassifier creates a classifier over the given catalog and store.
func NewClassifier(catalog Catalog, store Store) *Classifier {
	return &Classifier{catalog: catalog, store: store}
}

// Catalog returns the static category catalog.
func (c *Classifier) Catalog() Catalog {
	return c.catalog
}

// #endregion classifier

// #region classify

// Classify scores the video against every category and persists the
// winning assignment together with the stats increment, atomically.
// Calling it on a failed verdict returns ErrPolicyViolation and touches
// nothing.
func (c *Classifier) Classify(ctx context.Context, videoID, summaryText string, sigs []signals.AnalysisSignal, verdict validate.Verdict) (Assignment, error) {
	if !verdict.Passed {
		return Assignment{}, fmt.Errorf("video %s: %w", videoID, ErrPolicyViolation)
	}

	corpus := buildCorpus(summaryText, sigs)
	scores := make(map[string]float32, len(c.catalog))
	matched := make(map[string][]string, len(c.catalog))
	for _, cat := range c.catalog {
		scores[cat.ID], matched[cat.ID] = scoreCategory(cat, corpus)
	}

	stats, err := c.store.ReadAllStats(ctx)
	if err != nil {
		return Assignment{}, fmt.Errorf("read stats: %w", err)
	}

	winner, secondary := pickWinner(c.catalog, scores, stats)
	assignment := Assignment{
		VideoID:     videoID,
		CategoryID:  winner,
		MatchScore:  scores[winner],
		SecondaryID: secondary,
		AssignedAt:  time.Now().UTC(),
	}

	if err := c.store.AssignAndIncrement(ctx, assignment, matched[winner]); err != nil {
		return Assignment{}, err
	}

	log.Printf("[MOB] assigned video=%s mob=%s score=%.1f", videoID, winner, scores[winner])
	return assignment, nil
}

// #endregion classify

// #region scoring

// buildCorpus lowercases the summary plus every signal's evidence into
// one searchable blob.
func buildCorpus(summaryText string, sigs []signals.AnalysisSignal) string {
	var b strings.Builder
	b.WriteString(summaryText)
	for _, s := range sigs {
		b.WriteString("\n")
		b.WriteString(s.Evidence)
	}
	return strings.ToLower(b.String())
}

// scoreCategory sums the weight of each keyword present in the corpus.
// A keyword contributes its weight once, regardless of repeats.
func scoreCategory(cat Category, corpus string) (float32, []string) {
	var score float32
	var matched []string
	for keyword, weight := range cat.KeywordWeights {
		if strings.Contains(corpus, strings.ToLower(keyword)) {
			score += weight
			matched = append(matched, keyword)
		}
	}
	sort.Strings(matched)
	return score, matched
}

// pickWinner resolves the maximal score deterministically: highest
// score, then lowest current member count (load-balancing the mobs),
// then lexicographically smallest id. The secondary is the runner-up
// by the same ordering, reported only when it actually matched.
func pickWinner(catalog Catalog, scores map[string]float32, stats map[string]CategoryStats) (winner, secondary string) {
	ids := make([]string, 0, len(catalog))
	for _, cat := range catalog {
		ids = append(ids, cat.ID)
	}
	sort.Strings(ids)

	winner = bestOf(ids, scores, stats)

	rest := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != winner {
			rest = append(rest, id)
		}
	}
	if len(rest) == 0 {
		return winner, ""
	}
	if runnerUp := bestOf(rest, scores, stats); scores[runnerUp] > 0 {
		secondary = runnerUp
	}
	return winner, secondary
}

// bestOf applies the winner ordering over a sorted id slice.
func bestOf(ids []string, scores map[string]float32, stats map[string]CategoryStats) string {
	best := ids[0]
	for _, id := range ids[1:] {
		if scores[id] > scores[best] {
			best = id
			continue
		}
		if scores[id] == scores[best] &&
			stats[id].MemberCount < stats[best].MemberCount {
			best = id
		}
	}
	return best
}

// #endregion scoring
