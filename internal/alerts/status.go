package alerts

import (
	"context"
	"fmt"
	"time"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
	"scale-monitor-backend/internal/readings"
	"scale-monitor-backend/internal/timerange"
)

// StatusReadingLimit matches the largest page a client can fetch, so the
// server evaluates the same readings a dashboard would.
const StatusReadingLimit = readings.MaxLimit

type Status struct {
	BranchID           string          `json:"branchId"`
	EvaluatedAt        time.Time       `json:"evaluatedAt"`
	LatestRecordedAt   *time.Time      `json:"latestRecordedAt"`
	MinutesSinceLatest *int64          `json:"minutesSinceLatest"`
	StaleLimitMinutes  int             `json:"staleLimitMinutes"`
	Stale              bool            `json:"stale"`
	OutOfRangeCount    int             `json:"outOfRangeCount"`
	OutOfRange         []readings.Item `json:"outOfRange"`
}

// Status evaluates the branch's alert rules against its readings in range.
func (s *Service) Status(ctx context.Context, actor *access.Actor, branchID string, r timerange.Range) (*Status, error) {
	if err := access.AssertBranchAccess(actor, branchID); err != nil {
		return nil, err
	}

	branch, err := s.store.FindBranchWithScales(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("loading branch %s: %w", branchID, err)
	}
	if branch == nil {
		return nil, apperr.NotFound("Branch not found")
	}

	rows, err := s.store.ListReadings(ctx, branchID, r.From, r.To, StatusReadingLimit)
	if err != nil {
		return nil, fmt.Errorf("listing readings for branch %s: %w", branchID, err)
	}

	overrides := make(map[string]*models.ScaleAlertConfig, len(branch.Scales))
	for _, sc := range branch.Scales {
		if sc.AlertConfig != nil {
			overrides[sc.ID] = sc.AlertConfig
		}
	}

	st := Evaluate(effectiveBranchConfig(branch), overrides, rows, s.now())
	return &st, nil
}

// Evaluate applies the stale and out-of-range rules. Every threshold resolves
// field by field: scale override, then branch config.
func Evaluate(branchCfg models.BranchAlertConfig, overrides map[string]*models.ScaleAlertConfig, rows []models.WeightReading, now time.Time) Status {
	st := Status{
		BranchID:          branchCfg.BranchID,
		EvaluatedAt:       now.UTC(),
		StaleLimitMinutes: branchCfg.StaleAfterMinutes,
		OutOfRange:        make([]readings.Item, 0),
	}
	if len(rows) == 0 {
		return st
	}

	latest := rows[0]
	for _, r := range rows[1:] {
		if r.RecordedAt.After(latest.RecordedAt) {
			latest = r
		}
	}

	latestAt := latest.RecordedAt.UTC()
	minutes := int64(now.Sub(latestAt) / time.Minute)
	st.LatestRecordedAt = &latestAt
	st.MinutesSinceLatest = &minutes
	if o := overrides[latest.ScaleID]; o != nil && o.StaleAfterMinutes != nil {
		st.StaleLimitMinutes = *o.StaleAfterMinutes
	}
	st.Stale = minutes > int64(st.StaleLimitMinutes)

	out := make([]models.WeightReading, 0)
	for _, r := range rows {
		lo, hi := branchCfg.MinWeight, branchCfg.MaxWeight
		if o := overrides[r.ScaleID]; o != nil {
			if o.MinWeight != nil {
				lo = *o.MinWeight
			}
			if o.MaxWeight != nil {
				hi = *o.MaxWeight
			}
		}
		if r.Weight < lo || r.Weight > hi {
			out = append(out, r)
		}
	}
	st.OutOfRange = readings.ToItems(out)
	st.OutOfRangeCount = len(out)
	return st
}
