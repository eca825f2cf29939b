package dashboard

import (
	"context"
	"fmt"
	"time"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
	"scale-monitor-backend/internal/timerange"
)

const (
	ModeHour = "hour"
	ModeDay  = "day"
)

type Store interface {
	ReadingTrend(ctx context.Context, branchID string, from, to time.Time, unit string) ([]models.ReadingBucket, error)
	ReadingStats(ctx context.Context, branchID string, from, to time.Time) (*models.ReadingStats, error)
}

type TrendPoint struct {
	Bucket        time.Time `json:"bucket"`
	AverageWeight float64   `json:"averageWeight"`
	ReadingsCount int64     `json:"readingsCount"`
}

type TrendResponse struct {
	BranchID string       `json:"branchId"`
	Mode     string       `json:"mode"` // hour | day
	From     time.Time    `json:"from"`
	To       time.Time    `json:"to"`
	Points   []TrendPoint `json:"points"`
}

type StatsResponse struct {
	BranchID      string  `json:"branchId"`
	ReadingsCount int64   `json:"readingsCount"`
	AverageWeight float64 `json:"averageWeight"`
	MinWeight     float64 `json:"minWeight"`
	MaxWeight     float64 `json:"maxWeight"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Trend buckets a branch's readings by UTC hour or day, oldest first.
// An empty mode means hour.
func (s *Service) Trend(ctx context.Context, actor *access.Actor, branchID string, r timerange.Range, mode string) (*TrendResponse, error) {
	if mode == "" {
		mode = ModeHour
	}
	if mode != ModeHour && mode != ModeDay {
		return nil, apperr.BadRequest("mode must be 'hour' or 'day'")
	}
	if err := access.AssertBranchAccess(actor, branchID); err != nil {
		return nil, err
	}

	buckets, err := s.store.ReadingTrend(ctx, branchID, r.From, r.To, mode)
	if err != nil {
		return nil, fmt.Errorf("trend for branch %s: %w", branchID, err)
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, TrendPoint{
			Bucket:        b.Bucket.UTC(),
			AverageWeight: b.AverageWeight,
			ReadingsCount: b.ReadingsCount,
		})
	}

	return &TrendResponse{
		BranchID: branchID,
		Mode:     mode,
		From:     r.From,
		To:       r.To,
		Points:   points,
	}, nil
}

// Stats summarises a branch's readings in range; every figure is zero when
// there are none.
func (s *Service) Stats(ctx context.Context, actor *access.Actor, branchID string, r timerange.Range) (*StatsResponse, error) {
	if err := access.AssertBranchAccess(actor, branchID); err != nil {
		return nil, err
	}

	st, err := s.store.ReadingStats(ctx, branchID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("stats for branch %s: %w", branchID, err)
	}

	resp := &StatsResponse{BranchID: branchID, ReadingsCount: st.ReadingsCount}
	if st.AverageWeight != nil {
		resp.AverageWeight = *st.AverageWeight
	}
	if st.MinWeight != nil {
		resp.MinWeight = *st.MinWeight
	}
	if st.MaxWeight != nil {
		resp.MaxWeight = *st.MaxWeight
	}
	return resp, nil
}
