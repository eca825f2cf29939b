package readings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
	"scale-monitor-backend/internal/timerange"
)

const (
	DefaultLimit = 200
	MaxLimit     = 500
	// ExportLimit caps the rows written to one workbook.
	ExportLimit = 5000
)

type Store interface {
	ListReadings(ctx context.Context, branchID string, from, to time.Time, limit int) ([]models.WeightReading, error)
	AggregateReadingsByBranch(ctx context.Context, from, to time.Time, branchIDs []string) ([]models.BranchReadingAggregate, error)
	ListBranches(ctx context.Context, ids []string) ([]models.Branch, error)
}

type ScaleSummary struct {
	ID       string `json:"id"`
	DeviceID string `json:"deviceId"`
	Label    string `json:"label"`
}

type Item struct {
	ID         string       `json:"id"`
	BranchID   string       `json:"branchId"`
	ScaleID    string       `json:"scaleId"`
	RecordedAt time.Time    `json:"recordedAt"`
	Weight     float64      `json:"weight"`
	Battery    *float64     `json:"battery"`
	Status     *string      `json:"status"`
	Scale      ScaleSummary `json:"scale"`
}

type ComparisonItem struct {
	BranchID         string     `json:"branchId"`
	BranchCode       string     `json:"branchCode"`
	BranchName       string     `json:"branchName"`
	AverageWeight    float64    `json:"averageWeight"`
	ReadingsCount    int64      `json:"readingsCount"`
	LatestRecordedAt *time.Time `json:"latestRecordedAt"`
}

type ListQuery struct {
	BranchID string
	Range    timerange.Range
	Limit    int
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ClampLimit maps a requested page size onto (0, MaxLimit]; anything
// non-positive falls back to DefaultLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// List returns one branch's readings in the inclusive range, newest first.
func (s *Service) List(ctx context.Context, actor *access.Actor, q ListQuery) ([]Item, error) {
	if err := access.AssertBranchAccess(actor, q.BranchID); err != nil {
		return nil, err
	}
	return s.list(ctx, q.BranchID, q.Range, ClampLimit(q.Limit))
}

func (s *Service) list(ctx context.Context, branchID string, r timerange.Range, limit int) ([]Item, error) {
	rows, err := s.store.ListReadings(ctx, branchID, r.From, r.To, limit)
	if err != nil {
		return nil, fmt.Errorf("listing readings for branch %s: %w", branchID, err)
	}
	return ToItems(rows), nil
}

// ToItems converts stored readings to their response shape.
func ToItems(rows []models.WeightReading) []Item {
	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		item := Item{
			ID:         r.ID,
			BranchID:   r.BranchID,
			ScaleID:    r.ScaleID,
			RecordedAt: r.RecordedAt,
			Weight:     r.Weight,
			Battery:    r.Battery,
			Status:     r.Status,
			Scale:      ScaleSummary{ID: r.ScaleID},
		}
		if r.Scale != nil {
			item.Scale.DeviceID = r.Scale.DeviceID
			item.Scale.Label = r.Scale.Label
		}
		items = append(items, item)
	}
	return items
}

// Comparison aggregates readings per visible branch, highest average first.
func (s *Service) Comparison(ctx context.Context, actor *access.Actor, r timerange.Range) ([]ComparisonItem, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Missing session")
	}
	scope := access.ScopedBranchIDs(actor)
	if scope != nil && len(scope) == 0 {
		return nil, apperr.Forbidden("No branch access configured for this user")
	}

	groups, err := s.store.AggregateReadingsByBranch(ctx, r.From, r.To, scope)
	if err != nil {
		return nil, fmt.Errorf("aggregating readings: %w", err)
	}

	result := make([]ComparisonItem, 0, len(groups))
	if len(groups) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.BranchID)
	}
	branches, err := s.store.ListBranches(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading compared branches: %w", err)
	}
	byID := make(map[string]models.Branch, len(branches))
	for _, b := range branches {
		byID[b.ID] = b
	}

	for _, g := range groups {
		b, ok := byID[g.BranchID]
		if !ok {
			continue
		}
		item := ComparisonItem{
			BranchID:         b.ID,
			BranchCode:       b.Code,
			BranchName:       b.Name,
			ReadingsCount:    g.ReadingsCount,
			LatestRecordedAt: g.LatestRecordedAt,
		}
		if g.AverageWeight != nil {
			item.AverageWeight = *g.AverageWeight
		}
		result = append(result, item)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AverageWeight > result[j].AverageWeight
	})
	return result, nil
}
