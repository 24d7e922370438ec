package mob

// #region imports
import (
	"context"
	"errors"
	"time"
)

// #endregion

// #region errors

// ErrPolicyViolation means Classify was called on a non-passed verdict.
// That is a programming error upstream, never recovered here.
var ErrPolicyViolation = errors.New("classify called on a failed verdict")

// #endregion errors

// #region category

// Category is one catalog entry. The catalog is static for the life of
// the process; only usage statistics mutate.
type Category struct {
	ID             string
	DisplayName    string
	Description    string
	KeywordWeights map[string]float32
}

// Catalog is the fixed set of mob categories.
type Catalog []Category

// ByID returns the category with the given id.
func (c Catalog) ByID(id string) (Category, bool) {
	for _, cat := range c {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// #endregion category

// #region assignment

// Assignment records a validated video joining a mob. Created exactly
// once per video id; never updated after creation.
type Assignment struct {
	VideoID    string
	CategoryID string
	MatchScore float32
	// SecondaryID is the runner-up category. Empty when no other
	// category matched the corpus.
	SecondaryID string
	AssignedAt  time.Time
}

// #endregion assignment

// #region category-stats

// CategoryStats is the running population tally for one category. It is
// a cache over the assignment log, which stays the source of truth.
type CategoryStats struct {
	CategoryID  string
	MemberCount int64
	KeywordHits map[string]int64
	LastUpdated time.Time
}

// #endregion category-stats

// #region store

// Store is the persistence contract the classifier consumes.
// AssignAndIncrement must apply the assignment row and the stats
// increment as one atomic unit.
type Store interface {
	ReadAllStats(ctx context.Context) (map[string]CategoryStats, error)
	AssignAndIncrement(ctx context.Context, a Assignment, matchedKeywords []string) error
}

// #endregion store
