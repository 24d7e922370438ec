package state

// #region imports
import (
	"context"
	"fmt"
	"time"
)

// #endregion

// #region drift

// Drift describes one category whose cached member count disagrees with
// the assignment log.
type Drift struct {
	CategoryID  string
	CachedCount int64
	LoggedCount int64
}

// CheckDrift compares category_stats against a fold over the assignment
// log. An empty result means the cache is consistent.
func (s *Store) CheckDrift(ctx context.Context) ([]Drift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cs.category_id, cs.member_count, COUNT(ma.video_id)
		FROM category_stats cs
		LEFT JOIN mob_assignments ma ON ma.category_id = cs.category_id
		GROUP BY cs.category_id`)
	if err != nil {
		return nil, classify(fmt.Errorf("check drift: %w", err))
	}
	defer rows.Close()

	var drifts []Drift
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.CategoryID, &d.CachedCount, &d.LoggedCount); err != nil {
			return nil, fmt.Errorf("scan drift: %w", err)
		}
		if d.CachedCount != d.LoggedCount {
			drifts = append(drifts, d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate drift: %w", err))
	}
	return drifts, nil
}

// #endregion drift

// #region recompute

// RecomputeStats rebuilds the member counts from the assignment log,
// which is the source of truth. Runs in one transaction so readers
// never observe a half-rebuilt cache.
func (s *Store) RecomputeStats(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx, `
		UPDATE category_stats SET
		  member_count = (
		    SELECT COUNT(*) FROM mob_assignments
		    WHERE mob_assignments.category_id = category_stats.category_id
		  ),
		  last_updated = ?`, now)
	if err != nil {
		return classify(fmt.Errorf("rebuild stats: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// #endregion recompute
