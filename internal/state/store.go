package state

// #region imports
import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dairylabs/milkmob/internal/mob"
)

// #endregion

// #region errors

// ErrDuplicateSubmission means an assignment already exists for the
// video id. Surfaced distinctly so callers can choose between an
// idempotent no-op and an explicit rejection.
var ErrDuplicateSubmission = errors.New("assignment already exists for video")

// ErrConflict means the store could not apply the operation because of
// contention or unavailability. Retryable; nothing was applied.
var ErrConflict = errors.New("store conflict")

// ErrNotFound means the requested row does not exist.
var ErrNotFound = errors.New("not found")

// #endregion errors

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS mob_assignments (
	video_id     TEXT PRIMARY KEY,
	category_id  TEXT NOT NULL,
	match_score  REAL NOT NULL,
	secondary_id TEXT,
	assigned_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mob_assignments_category
ON mob_assignments(category_id);

CREATE TABLE IF NOT EXISTS category_stats (
	category_id  TEXT PRIMARY KEY,
	member_count INTEGER NOT NULL DEFAULT 0,
	last_updated TEXT
);

CREATE TABLE IF NOT EXISTS keyword_hits (
	category_id  TEXT NOT NULL,
	keyword      TEXT NOT NULL,
	hits         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (category_id, keyword)
);

CREATE TABLE IF NOT EXISTS tag_counts (
	tag    TEXT PRIMARY KEY,
	count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS submission_audit (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	audit_id      TEXT NOT NULL,
	video_id      TEXT NOT NULL,
	decision      TEXT NOT NULL,
	verdict_json  TEXT,
	reason        TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store persists mob assignments and category statistics in SQLite.
// The assignment log is append-only and authoritative; category_stats
// is a cache folded over it.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations. The pragmas
// ride in the DSN so they apply to every connection in the pool, not
// just the one that happens to run an Exec.
func NewStore(dbPath string) (*Store, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region init-catalog

// InitCatalog ensures a zero stats row exists for every catalog entry.
// Existing rows are left untouched.
func (s *Store) InitCatalog(ctx context.Context, catalog mob.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	for _, cat := range catalog {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO category_stats (category_id, member_count) VALUES (?, 0)
			 ON CONFLICT(category_id) DO NOTHING`,
			cat.ID,
		)
		if err != nil {
			return classify(fmt.Errorf("seed stats for %s: %w", cat.ID, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// #endregion init-catalog

// #region assign-and-increment

// AssignAndIncrement records the assignment and bumps the category
// tallies in a single transaction. Either everything commits or nothing
// does, so member_count never drifts from the assignment log. A
// duplicate video id surfaces as ErrDuplicateSubmission; contention as
// ErrConflict.
func (s *Store) AssignAndIncrement(ctx context.Context, a mob.Assignment, matchedKeywords []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO mob_assignments (video_id, category_id, match_score, secondary_id, assigned_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.VideoID, a.CategoryID, a.MatchScore, nullIfEmpty(a.SecondaryID), a.AssignedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("video %s: %w", a.VideoID, ErrDuplicateSubmission)
		}
		return classify(fmt.Errorf("insert assignment: %w", err))
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO category_stats (category_id, member_count, last_updated)
		 VALUES (?, 1, ?)
		 ON CONFLICT(category_id) DO UPDATE SET
		   member_count = member_count + 1,
		   last_updated = excluded.last_updated`,
		a.CategoryID, a.AssignedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return classify(fmt.Errorf("increment stats: %w", err))
	}

	for _, keyword := range matchedKeywords {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO keyword_hits (category_id, keyword, hits) VALUES (?, ?, 1)
			 ON CONFLICT(category_id, keyword) DO UPDATE SET hits = hits + 1`,
			a.CategoryID, keyword,
		)
		if err != nil {
			return classify(fmt.Errorf("increment keyword %q: %w", keyword, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// #endregion assign-and-increment

// #region read

// ReadStats returns the stats row for one category, keyword hits
// included.
func (s *Store) ReadStats(ctx context.Context, categoryID string) (mob.CategoryStats, error) {
	stats := mob.CategoryStats{
		CategoryID:  categoryID,
		KeywordHits: make(map[string]int64),
	}

	var lastUpdated sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT member_count, last_updated FROM category_stats WHERE category_id = ?`,
		categoryID,
	).Scan(&stats.MemberCount, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return mob.CategoryStats{}, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}
	if err != nil {
		return mob.CategoryStats{}, classify(fmt.Errorf("read stats: %w", err))
	}
	if lastUpdated.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, lastUpdated.String); err == nil {
			stats.LastUpdated = ts
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT keyword, hits FROM keyword_hits WHERE category_id = ?`, categoryID)
	if err != nil {
		return mob.CategoryStats{}, classify(fmt.Errorf("read keyword hits: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var keyword string
		var hits int64
		if err := rows.Scan(&keyword, &hits); err != nil {
			return mob.CategoryStats{}, fmt.Errorf("scan keyword hits: %w", err)
		}
		stats.KeywordHits[keyword] = hits
	}
	if err := rows.Err(); err != nil {
		return mob.CategoryStats{}, classify(fmt.Errorf("iterate keyword hits: %w", err))
	}
	return stats, nil
}

// ReadAllStats returns the stats cache keyed by category id. Keyword
// hits are omitted here; the classifier only needs member counts.
func (s *Store) ReadAllStats(ctx context.Context) (map[string]mob.CategoryStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, member_count, last_updated FROM category_stats`)
	if err != nil {
		return nil, classify(fmt.Errorf("read all stats: %w", err))
	}
	defer rows.Close()

	out := make(map[string]mob.CategoryStats)
	for rows.Next() {
		var stats mob.CategoryStats
		var lastUpdated sql.NullString
		if err := rows.Scan(&stats.CategoryID, &stats.MemberCount, &lastUpdated); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		if lastUpdated.Valid {
			if ts, err := time.Parse(time.RFC3339Nano, lastUpdated.String); err == nil {
				stats.LastUpdated = ts
			}
		}
		out[stats.CategoryID] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate stats: %w", err))
	}
	return out, nil
}

// Assignment returns the recorded assignment for a video id.
func (s *Store) Assignment(ctx context.Context, videoID string) (mob.Assignment, error) {
	var a mob.Assignment
	var secondary sql.NullString
	var assignedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT video_id, category_id, match_score, secondary_id, assigned_at
		 FROM mob_assignments WHERE video_id = ?`,
		videoID,
	).Scan(&a.VideoID, &a.CategoryID, &a.MatchScore, &secondary, &assignedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return mob.Assignment{}, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
	}
	if err != nil {
		return mob.Assignment{}, classify(fmt.Errorf("read assignment: %w", err))
	}
	if secondary.Valid {
		a.SecondaryID = secondary.String
	}
	if ts, err := time.Parse(time.RFC3339Nano, assignedAt); err == nil {
		a.AssignedAt = ts
	}
	return a, nil
}

// #endregion read

// #region error-classification

// isUniqueViolation reports whether err is a primary key violation on
// the assignment log.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// classify folds store-level failures into the retryable ErrConflict
// bucket: lock contention, busy handles, and deadline expiry all mean
// "nothing applied, try again".
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "busy") ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// #endregion error-classification
