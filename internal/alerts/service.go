package alerts

import (
	"context"
	"fmt"
	"time"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/audit"
	"scale-monitor-backend/internal/models"

	"go.uber.org/zap"
)

type Store interface {
	FindBranch(ctx context.Context, id string) (*models.Branch, error)
	FindBranchWithScales(ctx context.Context, id string) (*models.Branch, error)
	FindScale(ctx context.Context, id string) (*models.Scale, error)
	UpsertBranchAlertConfig(ctx context.Context, cfg *models.BranchAlertConfig) (*models.BranchAlertConfig, error)
	UpsertScaleAlertConfig(ctx context.Context, cfg *models.ScaleAlertConfig) (*models.ScaleAlertConfig, error)
	DeleteScaleAlertConfig(ctx context.Context, scaleID string) (bool, error)
	ListReadings(ctx context.Context, branchID string, from, to time.Time, limit int) ([]models.WeightReading, error)
}

// AuditRecorder receives every successful configuration change.
type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}

type BranchSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type ScaleSummary struct {
	ID       string `json:"id"`
	DeviceID string `json:"deviceId"`
	Label    string `json:"label"`
}

// BranchConfig is a stored branch config, or the default one (no ID).
type BranchConfig struct {
	ID                string     `json:"id,omitempty"`
	BranchID          string     `json:"branchId"`
	MinWeight         float64    `json:"minWeight"`
	MaxWeight         float64    `json:"maxWeight"`
	StaleAfterMinutes int        `json:"staleAfterMinutes"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

type ScaleConfig struct {
	ID                string    `json:"id"`
	ScaleID           string    `json:"scaleId"`
	MinWeight         *float64  `json:"minWeight"`
	MaxWeight         *float64  `json:"maxWeight"`
	StaleAfterMinutes *int      `json:"staleAfterMinutes"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ScaleConfigItem struct {
	Scale  ScaleSummary `json:"scale"`
	Config *ScaleConfig `json:"config"`
}

type ConfigResponse struct {
	Branch       BranchSummary     `json:"branch"`
	BranchConfig BranchConfig      `json:"branchConfig"`
	ScaleConfigs []ScaleConfigItem `json:"scaleConfigs"`
}

// BranchConfigInput carries the three thresholds; all are required.
type BranchConfigInput struct {
	MinWeight         *float64 `json:"minWeight"`
	MaxWeight         *float64 `json:"maxWeight"`
	StaleAfterMinutes *int     `json:"staleAfterMinutes"`
}

// ScaleConfigInput replaces the whole override; an omitted field is cleared.
type ScaleConfigInput struct {
	MinWeight         *float64 `json:"minWeight"`
	MaxWeight         *float64 `json:"maxWeight"`
	StaleAfterMinutes *int     `json:"staleAfterMinutes"`
}

type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

type Service struct {
	store    Store
	recorder AuditRecorder
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, recorder AuditRecorder, log *zap.Logger) *Service {
	return &Service{store: store, recorder: recorder, log: log, now: time.Now}
}

// GetConfig returns the branch thresholds (default when never written) and
// every scale's override, scales by label.
func (s *Service) GetConfig(ctx context.Context, actor *access.Actor, branchID string) (*ConfigResponse, error) {
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

	resp := &ConfigResponse{
		Branch:       BranchSummary{ID: branch.ID, Name: branch.Name, Code: branch.Code},
		BranchConfig: toBranchConfig(effectiveBranchConfig(branch)),
		ScaleConfigs: make([]ScaleConfigItem, 0, len(branch.Scales)),
	}
	for _, sc := range branch.Scales {
		item := ScaleConfigItem{
			Scale: ScaleSummary{ID: sc.ID, DeviceID: sc.DeviceID, Label: sc.Label},
		}
		if sc.AlertConfig != nil {
			item.Config = toScaleConfig(sc.AlertConfig)
		}
		resp.ScaleConfigs = append(resp.ScaleConfigs, item)
	}
	return resp, nil
}

// UpsertBranchConfig replaces all three branch thresholds.
func (s *Service) UpsertBranchConfig(ctx context.Context, actor *access.Actor, branchID string, in BranchConfigInput) (*BranchConfig, error) {
	if in.MinWeight == nil || in.MaxWeight == nil || in.StaleAfterMinutes == nil {
		return nil, apperr.BadRequest("minWeight, maxWeight and staleAfterMinutes are required")
	}
	if *in.StaleAfterMinutes < 1 {
		return nil, apperr.BadRequest("staleAfterMinutes must be at least 1")
	}
	if err := access.AssertBranchAccess(actor, branchID); err != nil {
		return nil, err
	}
	if *in.MinWeight >= *in.MaxWeight {
		return nil, apperr.BadRequest("minWeight must be lower than maxWeight")
	}

	branch, err := s.store.FindBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("loading branch %s: %w", branchID, err)
	}
	if branch == nil {
		return nil, apperr.NotFound("Branch not found")
	}

	saved, err := s.store.UpsertBranchAlertConfig(ctx, &models.BranchAlertConfig{
		BranchID:          branchID,
		MinWeight:         *in.MinWeight,
		MaxWeight:         *in.MaxWeight,
		StaleAfterMinutes: *in.StaleAfterMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("saving alert config for branch %s: %w", branchID, err)
	}

	out := toBranchConfig(*saved)
	var before any
	if branch.AlertConfig != nil {
		before = toBranchConfig(*branch.AlertConfig)
	}
	s.recorder.Record(ctx, audit.Entry{
		BranchID:    branchID,
		Actor:       actor,
		EntityType:  audit.EntityBranchAlertConfig,
		EntityID:    saved.ID,
		Action:      models.AuditActionUpsert,
		Description: fmt.Sprintf("Alert thresholds of %s set to %.2f-%.2f kg, stale after %d min", branch.Code, out.MinWeight, out.MaxWeight, out.StaleAfterMinutes),
		Before:      before,
		After:       out,
	})

	s.log.Info("branch alert config saved", zap.String("branch_id", branchID), zap.String("user_id", actor.UserID))
	return &out, nil
}

// UpsertScaleConfig replaces a scale's override. min < max is only checked
// when both bounds are given in the same call; a lone bound is stored as is
// even if it crosses the inherited one.
func (s *Service) UpsertScaleConfig(ctx context.Context, actor *access.Actor, scaleID string, in ScaleConfigInput) (*ScaleConfig, error) {
	if in.StaleAfterMinutes != nil && *in.StaleAfterMinutes < 1 {
		return nil, apperr.BadRequest("staleAfterMinutes must be at least 1")
	}

	scale, err := s.findScale(ctx, actor, scaleID)
	if err != nil {
		return nil, err
	}

	if in.MinWeight != nil && in.MaxWeight != nil && *in.MinWeight >= *in.MaxWeight {
		return nil, apperr.BadRequest("minWeight must be lower than maxWeight")
	}

	saved, err := s.store.UpsertScaleAlertConfig(ctx, &models.ScaleAlertConfig{
		ScaleID:           scaleID,
		MinWeight:         in.MinWeight,
		MaxWeight:         in.MaxWeight,
		StaleAfterMinutes: in.StaleAfterMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("saving alert config for scale %s: %w", scaleID, err)
	}

	out := toScaleConfig(saved)
	var before any
	if scale.AlertConfig != nil {
		before = toScaleConfig(scale.AlertConfig)
	}
	s.recorder.Record(ctx, audit.Entry{
		BranchID:    scale.BranchID,
		Actor:       actor,
		EntityType:  audit.EntityScaleAlertConfig,
		EntityID:    scale.ID,
		Action:      models.AuditActionUpsert,
		Description: fmt.Sprintf("Alert override of %s updated", scale.DeviceID),
		Before:      before,
		After:       out,
	})

	return out, nil
}

// DeleteScaleConfig removes a scale's override. Deleting one that does not
// exist still succeeds.
func (s *Service) DeleteScaleConfig(ctx context.Context, actor *access.Actor, scaleID string) (*DeleteResult, error) {
	scale, err := s.findScale(ctx, actor, scaleID)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.DeleteScaleAlertConfig(ctx, scaleID)
	if err != nil {
		return nil, fmt.Errorf("deleting alert config for scale %s: %w", scaleID, err)
	}

	if removed {
		var before any
		if scale.AlertConfig != nil {
			before = toScaleConfig(scale.AlertConfig)
		}
		s.recorder.Record(ctx, audit.Entry{
			BranchID:    scale.BranchID,
			Actor:       actor,
			EntityType:  audit.EntityScaleAlertConfig,
			EntityID:    scale.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Alert override of %s removed", scale.DeviceID),
			Before:      before,
		})
	}

	return &DeleteResult{Deleted: true}, nil
}

// findScale resolves the scale first so a missing one is a 404 for every
// caller, then authorizes against its branch.
func (s *Service) findScale(ctx context.Context, actor *access.Actor, scaleID string) (*models.Scale, error) {
	scale, err := s.store.FindScale(ctx, scaleID)
	if err != nil {
		return nil, fmt.Errorf("loading scale %s: %w", scaleID, err)
	}
	if scale == nil {
		return nil, apperr.NotFound("Scale not found")
	}
	if err := access.AssertBranchAccess(actor, scale.BranchID); err != nil {
		return nil, err
	}
	return scale, nil
}

func effectiveBranchConfig(b *models.Branch) models.BranchAlertConfig {
	if b.AlertConfig != nil {
		return *b.AlertConfig
	}
	return models.DefaultBranchAlertConfig(b.ID)
}

func toBranchConfig(c models.BranchAlertConfig) BranchConfig {
	out := BranchConfig{
		ID:                c.ID,
		BranchID:          c.BranchID,
		MinWeight:         c.MinWeight,
		MaxWeight:         c.MaxWeight,
		StaleAfterMinutes: c.StaleAfterMinutes,
	}
	if !c.UpdatedAt.IsZero() {
		updated := c.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

func toScaleConfig(c *models.ScaleAlertConfig) *ScaleConfig {
	return &ScaleConfig{
		ID:                c.ID,
		ScaleID:           c.ScaleID,
		MinWeight:         c.MinWeight,
		MaxWeight:         c.MaxWeight,
		StaleAfterMinutes: c.StaleAfterMinutes,
		UpdatedAt:         c.UpdatedAt,
	}
}
