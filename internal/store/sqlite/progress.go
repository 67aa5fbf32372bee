package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/moodshelf/moodshelf-server/internal/domain"
	"github.com/moodshelf/moodshelf-server/internal/store"
)

// progressColumns is the ordered list of columns selected in progress
// queries. Must match the scan order in scanProgress.
const progressColumns = `book_id, progress, finished, finished_at, last_played_at, updated_at`

// scanProgress scans a row into a domain.ReadingProgress.
func scanProgress(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingProgress, error) {
	var p domain.ReadingProgress
	var (
		finished     int
		finishedAt   sql.NullString
		lastPlayedAt string
		updatedAt    string
	)

	err := scanner.Scan(
		&p.BookID,
		&p.Progress,
		&finished,
		&finishedAt,
		&lastPlayedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Finished = finished != 0

	p.FinishedAt, err = parseNullableTime(finishedAt)
	if err != nil {
		return nil, err
	}
	p.LastPlayedAt, err = parseTime(lastPlayedAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProgress inserts or replaces one book's progress row.
func (s *Store) UpsertProgress(ctx context.Context, p *domain.ReadingProgress) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_progress (
			book_id, progress, finished, finished_at, last_played_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (book_id) DO UPDATE SET
			progress       = excluded.progress,
			finished       = excluded.finished,
			finished_at    = excluded.finished_at,
			last_played_at = excluded.last_played_at,
			updated_at     = excluded.updated_at`,
		p.BookID,
		p.Progress,
		boolToInt(p.Finished),
		nullTime(p.FinishedAt),
		formatTime(p.LastPlayedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert progress for %s: %w", p.BookID, err)
	}
	return nil
}

// GetProgress returns one book's progress row, or store.ErrNotFound.
func (s *Store) GetProgress(ctx context.Context, bookID string) (*domain.ReadingProgress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM reading_progress WHERE book_id = ?`, bookID)

	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress for %s: %w", bookID, err)
	}
	return p, nil
}

// ListProgress returns every progress row.
func (s *Store) ListProgress(ctx context.Context) ([]*domain.ReadingProgress, error) {
	return s.queryProgress(ctx,
		`SELECT `+progressColumns+` FROM reading_progress ORDER BY book_id`)
}

// ListFinished returns the rows for finished books, which feed the
// preference boost.
func (s *Store) ListFinished(ctx context.Context) ([]*domain.ReadingProgress, error) {
	return s.queryProgress(ctx,
		`SELECT `+progressColumns+` FROM reading_progress WHERE finished = 1 ORDER BY book_id`)
}

// DeleteProgress removes one book's row. Missing rows are not an error.
func (s *Store) DeleteProgress(ctx context.Context, bookID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM reading_progress WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("delete progress for %s: %w", bookID, err)
	}
	return nil
}

func (s *Store) queryProgress(ctx context.Context, query string, args ...any) ([]*domain.ReadingProgress, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []*domain.ReadingProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
