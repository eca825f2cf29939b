package store

import (
	"context"
	"fmt"
	"time"

	"scale-monitor-backend/internal/models"

	"gorm.io/gorm"
)

func (s *Store) CreateReading(ctx context.Context, reading *models.WeightReading) error {
	return s.db.WithContext(ctx).Create(reading).Error
}

// ListReadings returns readings of one branch in [from, to], newest first,
// each with its scale.
func (s *Store) ListReadings(ctx context.Context, branchID string, from, to time.Time, limit int) ([]models.WeightReading, error) {
	readings := make([]models.WeightReading, 0)
	if !validID(branchID) {
		return readings, nil
	}
	err := s.db.WithContext(ctx).
		Preload("Scale", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "device_id", "label", "branch_id")
		}).
		Where("branch_id = ? AND recorded_at >= ? AND recorded_at <= ?", branchID, from, to).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

// AggregateReadingsByBranch groups readings in [from, to] per branch. A nil
// branchIDs means every branch.
func (s *Store) AggregateReadingsByBranch(ctx context.Context, from, to time.Time, branchIDs []string) ([]models.BranchReadingAggregate, error) {
	rows := make([]models.BranchReadingAggregate, 0)
	branchIDs = validIDs(branchIDs)
	if branchIDs != nil && len(branchIDs) == 0 {
		return rows, nil
	}
	q := s.db.WithContext(ctx).
		Model(&models.WeightReading{}).
		Select("branch_id, COUNT(id) AS readings_count, AVG(weight) AS average_weight, MAX(recorded_at) AS latest_recorded_at").
		Where("recorded_at >= ? AND recorded_at <= ?", from, to)
	if branchIDs != nil {
		q = q.Where("branch_id IN ?", branchIDs)
	}
	if err := q.Group("branch_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadingTrend buckets one branch's readings by UTC hour or day.
func (s *Store) ReadingTrend(ctx context.Context, branchID string, from, to time.Time, unit string) ([]models.ReadingBucket, error) {
	var trunc string
	switch unit {
	case "hour":
		trunc = "hour"
	case "day":
		trunc = "day"
	default:
		return nil, fmt.Errorf("unsupported trend unit %q", unit)
	}

	sql := fmt.Sprintf(`
		SELECT date_trunc('%s', recorded_at AT TIME ZONE 'UTC') AS bucket,
			   AVG(weight) AS average_weight,
			   COUNT(*) AS readings_count
		FROM weight_readings
		WHERE branch_id = ? AND recorded_at >= ? AND recorded_at <= ?
		GROUP BY bucket
		ORDER BY bucket ASC`, trunc)

	buckets := make([]models.ReadingBucket, 0)
	if !validID(branchID) {
		return buckets, nil
	}
	if err := s.db.WithContext(ctx).Raw(sql, branchID, from, to).Scan(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

func (s *Store) ReadingStats(ctx context.Context, branchID string, from, to time.Time) (*models.ReadingStats, error) {
	var stats models.ReadingStats
	if !validID(branchID) {
		return &stats, nil
	}
	err := s.db.WithContext(ctx).
		Model(&models.WeightReading{}).
		Select("COUNT(*) AS readings_count, AVG(weight) AS average_weight, MIN(weight) AS min_weight, MAX(weight) AS max_weight").
		Where("branch_id = ? AND recorded_at >= ? AND recorded_at <= ?", branchID, from, to).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
