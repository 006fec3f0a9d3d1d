package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentRepository handles catalog database operations.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// List returns every catalog row ordered by mood and position.
func (r *ContentRepository) List(ctx context.Context) ([]ContentRow, error) {
	query := `
		SELECT mood, position, content_id, created_at
		FROM mood_content
		ORDER BY mood, position
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	defer rows.Close()

	var out []ContentRow
	for rows.Next() {
		var row ContentRow
		if err := rows.Scan(&row.Mood, &row.Position, &row.ContentID, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning content row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content rows: %w", err)
	}
	return out, nil
}

// ForMood returns the content IDs of one mood in position order.
// Returns ErrNotFound if the mood has no rows.
func (r *ContentRepository) ForMood(ctx context.Context, mood string) ([]string, error) {
	query := `
		SELECT content_id
		FROM mood_content
		WHERE mood = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, mood)
	if err != nil {
		return nil, fmt.Errorf("querying content for %s: %w", mood, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting content for %s: %w", mood, err)
	}
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	return ids, nil
}

// ReplaceMood swaps the content of one mood for ids, in order, atomically.
func (r *ContentRepository) ReplaceMood(ctx context.Context, mood string, ids []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM mood_content WHERE mood = $1`, mood); err != nil {
			return fmt.Errorf("clearing content for %s: %w", mood, err)
		}
		if len(ids) == 0 {
			return nil
		}

		query := `
			INSERT INTO mood_content (mood, position, content_id, created_at)
			SELECT $1::text, p, c, $4::timestamptz
			FROM unnest($2::int[], $3::text[]) AS t(p, c)
		`
		positions := make([]int32, len(ids))
		for i := range ids {
			positions[i] = int32(i)
		}
		if _, err := tx.Exec(ctx, query, mood, positions, ids, time.Now()); err != nil {
			return fmt.Errorf("inserting content for %s: %w", mood, err)
		}
		return nil
	})
}

// LoadCatalog returns the whole catalog grouped by mood, each list in
// position order.
func (r *ContentRepository) LoadCatalog(ctx context.Context) (map[string][]string, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return groupRows(rows), nil
}

// groupRows groups rows by mood. rows must already be ordered by position.
func groupRows(rows []ContentRow) map[string][]string {
	out := make(map[string][]string)
	for _, row := range rows {
		out[row.Mood] = append(out[row.Mood], row.ContentID)
	}
	return out
}
