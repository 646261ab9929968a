package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
)

// refreshStore implements driven.RefreshStore.
type refreshStore struct {
	store *Store
}

var _ driven.RefreshStore = (*refreshStore)(nil)

// RecordRefresh logs a completed sweep.
func (s *refreshStore) RecordRefresh(ctx context.Context, record *domain.RefreshRecord) error {
	if record == nil || !record.Kind.IsValid() {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO refresh_history (kind, started_at, ended_at, attempted, updated, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(record.Kind),
		formatTime(record.StartedAt),
		formatTime(record.EndedAt),
		record.Attempted, record.Updated, record.Failed)

	if err != nil {
		return fmt.Errorf("recording refresh: %w", err)
	}
	return nil
}

// LastRefresh returns when the most recent sweep of kind completed.
// Returns the zero time and no error if none has been recorded.
func (s *refreshStore) LastRefresh(ctx context.Context, kind domain.RefreshKind) (time.Time, error) {
	var last sql.NullString
	row := s.store.db.QueryRowContext(ctx,
		"SELECT MAX(ended_at) FROM refresh_history WHERE kind = ?", string(kind))
	if err := row.Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("querying last refresh: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return parseTime(last.String), nil
}

// History returns recent records for kind, most recent first.
// A limit of zero or less returns every record.
func (s *refreshStore) History(ctx context.Context, kind domain.RefreshKind, limit int) ([]domain.RefreshRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT kind, started_at, ended_at, attempted, updated, failed
		FROM refresh_history
		WHERE kind = ?
		ORDER BY ended_at DESC, id DESC
		LIMIT ?
	`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("querying refresh history: %w", err)
	}
	defer rows.Close()

	var records []domain.RefreshRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var record domain.RefreshRecord
		var recordKind, startedAt, endedAt string
		if err := rows.Scan(&recordKind, &startedAt, &endedAt,
			&record.Attempted, &record.Updated, &record.Failed); err != nil {
			return nil, fmt.Errorf("scanning refresh record: %w", err)
		}
		record.Kind = domain.RefreshKind(recordKind)
		record.StartedAt = parseTime(startedAt)
		record.EndedAt = parseTime(endedAt)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refresh history: %w", err)
	}

	return records, nil
}

// PruneHistory removes old records beyond the retention limit.
// Keeps the most recent 'keep' records per kind.
func (s *refreshStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM refresh_history
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY kind ORDER BY ended_at DESC, id DESC) AS rn
				FROM refresh_history
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning refresh history: %w", err)
	}
	return nil
}
