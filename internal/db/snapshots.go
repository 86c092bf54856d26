package db

import (
	"context"

	"recoverydesk/internal/models"
)

// CreateSnapshot records a recommendation snapshot.
func (d *DB) CreateSnapshot(ctx context.Context, s *models.RecommendationSnapshot) error {
	breakdown := s.SegmentBreakdown
	if breakdown == nil {
		breakdown = map[models.Segment]int{}
	}

	return d.Pool.QueryRow(ctx, `
		INSERT INTO recommendation_snapshots
			(total_eligible, recommended_batch_size, segment_breakdown, potential_revenue, allocated_revenue, allocated_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, taken_at
	`,
		s.TotalEligible,
		s.RecommendedBatchSize,
		breakdown,
		s.PotentialRevenue,
		s.AllocatedRevenue,
		s.AllocatedCount,
	).Scan(&s.ID, &s.TakenAt)
}

// ListSnapshots returns the most recent snapshots, newest first.
func (d *DB) ListSnapshots(ctx context.Context, limit int) ([]models.RecommendationSnapshot, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, total_eligible, recommended_batch_size, segment_breakdown, potential_revenue,
			allocated_revenue, allocated_count, taken_at
		FROM recommendation_snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.RecommendationSnapshot{}
	for rows.Next() {
		var s models.RecommendationSnapshot
		if err := rows.Scan(
			&s.ID,
			&s.TotalEligible,
			&s.RecommendedBatchSize,
			&s.SegmentBreakdown,
			&s.PotentialRevenue,
			&s.AllocatedRevenue,
			&s.AllocatedCount,
			&s.TakenAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}
