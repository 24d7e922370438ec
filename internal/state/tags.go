package state

// #region imports
import (
	"context"
	"fmt"
)

// #endregion

// #region tag-count

// TagCount is one campaign hashtag tally.
type TagCount struct {
	Tag   string
	Count int64
}

// #endregion tag-count

// #region increment-tags

// IncrementTags bumps the tally for each campaign tag seen on a
// submission.
func (s *Store) IncrementTags(ctx context.Context, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	for _, tag := range tags {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tag_counts (tag, count) VALUES (?, 1)
			 ON CONFLICT(tag) DO UPDATE SET count = count + 1`, tag)
		if err != nil {
			return classify(fmt.Errorf("increment tag %q: %w", tag, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// #endregion increment-tags

// #region popular-tags

// PopularTags returns the most-seen campaign tags, highest count first,
// ties broken by tag for stable output.
func (s *Store) PopularTags(ctx context.Context, limit int) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, count FROM tag_counts ORDER BY count DESC, tag ASC LIMIT ?`, limit)
	if err != nil {
		return nil, classify(fmt.Errorf("read tags: %w", err))
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate tags: %w", err))
	}
	return out, nil
}

// #endregion popular-tags
