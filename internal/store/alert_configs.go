package store

import (
	"context"

	"scale-monitor-backend/internal/models"

	"gorm.io/gorm/clause"
)

// UpsertBranchAlertConfig replaces all three thresholds of the branch's
// config in one statement and returns the stored row.
func (s *Store) UpsertBranchAlertConfig(ctx context.Context, cfg *models.BranchAlertConfig) (*models.BranchAlertConfig, error) {
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"min_weight", "max_weight", "stale_after_minutes", "updated_at"}),
	}).Create(cfg).Error
	if err != nil {
		return nil, err
	}

	var saved models.BranchAlertConfig
	if err := db.Where("branch_id = ?", cfg.BranchID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpsertScaleAlertConfig writes every override field, nil ones as NULL.
func (s *Store) UpsertScaleAlertConfig(ctx context.Context, cfg *models.ScaleAlertConfig) (*models.ScaleAlertConfig, error) {
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scale_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"min_weight", "max_weight", "stale_after_minutes", "updated_at"}),
	}).Create(cfg).Error
	if err != nil {
		return nil, err
	}

	var saved models.ScaleAlertConfig
	if err := db.Where("scale_id = ?", cfg.ScaleID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteScaleAlertConfig removes the override and reports whether one existed.
func (s *Store) DeleteScaleAlertConfig(ctx context.Context, scaleID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("scale_id = ?", scaleID).Delete(&models.ScaleAlertConfig{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
