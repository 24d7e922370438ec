package state

// #region imports
import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #endregion

// #region audit-entry

// AuditEntry is one row in the submission audit trail. Every processed
// submission appends one, rejections included, so the decision history
// is reconstructable.
type AuditEntry struct {
	AuditID     string
	VideoID     string
	Decision    string // "validated" | "rejected" | "classified"
	VerdictJSON string
	Reason      string
	CreatedAt   time.Time
}

// #endregion audit-entry

// #region append-audit

// AppendAudit writes one audit row. Missing ids and timestamps are
// filled in.
func (s *Store) AppendAudit(ctx context.Context, entry AuditEntry) error {
	if entry.AuditID == "" {
		entry.AuditID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submission_audit (audit_id, video_id, decision, verdict_json, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.AuditID,
		entry.VideoID,
		entry.Decision,
		nullIfEmpty(entry.VerdictJSON),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return classify(fmt.Errorf("append audit: %w", err))
	}
	return nil
}

// #endregion append-audit

// #region recent-audit

// RecentAudit returns the newest audit rows, newest first.
func (s *Store) RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT audit_id, video_id, decision,
		        COALESCE(verdict_json, ''), COALESCE(reason, ''), created_at
		 FROM submission_audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, classify(fmt.Errorf("read audit: %w", err))
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var createdAt string
		if err := rows.Scan(&e.AuditID, &e.VideoID, &e.Decision, &e.VerdictJSON, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterate audit: %w", err))
	}
	return entries, nil
}

// #endregion recent-audit

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
