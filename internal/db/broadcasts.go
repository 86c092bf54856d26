package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"recoverydesk/internal/models"
)

const broadcastColumns = `id, name, template_id, channel, target, total_allocated, total_revenue,
	estimated_cost::text, currency, segment_table_version, status, backend_ref, error,
	created_by, created_at, updated_at`

func scanBroadcast(row pgx.Row) (*models.Broadcast, error) {
	var b models.Broadcast
	var cost string
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.TemplateID,
		&b.Channel,
		&b.Target,
		&b.TotalAllocated,
		&b.TotalRevenue,
		&cost,
		&b.Currency,
		&b.SegmentTableVersion,
		&b.Status,
		&b.BackendRef,
		&b.Error,
		&b.CreatedBy,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBroadcastNotFound
	}
	if err != nil {
		return nil, err
	}
	b.EstimatedCost, err = decimal.NewFromString(cost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse estimated cost %q: %w", cost, err)
	}
	b.Allocation = make(map[models.Segment]int)
	return &b, nil
}

// CreateBroadcast records a broadcast and its per-segment allocation in one
// transaction. Segments with a zero count are not stored.
func (d *DB) CreateBroadcast(ctx context.Context, b *models.Broadcast) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO broadcasts (id, name, template_id, channel, target, total_allocated, total_revenue,
			estimated_cost, currency, segment_table_version, status, backend_ref, error, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`,
		b.ID,
		b.Name,
		b.TemplateID,
		b.Channel,
		b.Target,
		b.TotalAllocated,
		b.TotalRevenue,
		b.EstimatedCost.String(),
		b.Currency,
		b.SegmentTableVersion,
		b.Status,
		b.BackendRef,
		b.Error,
		b.CreatedBy,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert broadcast: %w", err)
	}

	for _, seg := range models.SegmentPriority() {
		count := b.Allocation[seg]
		if count <= 0 {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO broadcast_segments (broadcast_id, segment, count, revenue)
			VALUES ($1, $2, $3, $4)
		`, b.ID, string(seg), count, int64(count)*seg.Value())
		if err != nil {
			return fmt.Errorf("failed to insert segment %s: %w", seg, err)
		}
	}

	return tx.Commit(ctx)
}

// UpdateBroadcastStatus moves a broadcast to status, recording the backend
// reference on success or the error message on failure.
func (d *DB) UpdateBroadcastStatus(ctx context.Context, id uuid.UUID, status string, backendRef, errMsg *string) error {
	tag, err := d.Pool.Exec(ctx, `
		UPDATE broadcasts
		SET status = $1, backend_ref = $2, error = $3, updated_at = NOW()
		WHERE id = $4
	`, status, backendRef, errMsg, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBroadcastNotFound
	}
	return nil
}

// GetBroadcast retrieves a broadcast with its per-segment allocation.
func (d *DB) GetBroadcast(ctx context.Context, id uuid.UUID) (*models.Broadcast, error) {
	b, err := scanBroadcast(d.Pool.QueryRow(ctx, `SELECT `+broadcastColumns+` FROM broadcasts WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := d.Pool.Query(ctx, `SELECT segment, count FROM broadcast_segments WHERE broadcast_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seg string
		var count int
		if err := rows.Scan(&seg, &count); err != nil {
			return nil, err
		}
		b.Allocation[models.Segment(seg)] = count
	}

	return b, rows.Err()
}

// ListBroadcasts returns the most recent broadcasts, newest first, with their
// per-segment allocations.
func (d *DB) ListBroadcasts(ctx context.Context, limit int) ([]models.Broadcast, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+broadcastColumns+`
		FROM broadcasts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	broadcasts := []models.Broadcast{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		b, err := scanBroadcast(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[b.ID] = len(broadcasts)
		broadcasts = append(broadcasts, *b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(broadcasts) == 0 {
		return broadcasts, nil
	}

	ids := make([]uuid.UUID, 0, len(broadcasts))
	for _, b := range broadcasts {
		ids = append(ids, b.ID)
	}

	segRows, err := d.Pool.Query(ctx, `
		SELECT broadcast_id, segment, count
		FROM broadcast_segments
		WHERE broadcast_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer segRows.Close()

	for segRows.Next() {
		var id uuid.UUID
		var seg string
		var count int
		if err := segRows.Scan(&id, &seg, &count); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			broadcasts[i].Allocation[models.Segment(seg)] = count
		}
	}

	return broadcasts, segRows.Err()
}

// CountBroadcastsByStatus returns the number of broadcasts per status.
func (d *DB) CountBroadcastsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM broadcasts GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
