package store

import (
	"context"

	"scale-monitor-backend/internal/models"

	"gorm.io/gorm"
)

// ListBranches returns branches ordered by name. A nil ids slice means every
// branch; an empty one means none.
func (s *Store) ListBranches(ctx context.Context, ids []string) ([]models.Branch, error) {
	branches := make([]models.Branch, 0)
	ids = validIDs(ids)
	if ids != nil && len(ids) == 0 {
		return branches, nil
	}

	q := s.db.WithContext(ctx).Order("name ASC")
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// FindBranch loads a branch with its stored alert config, if any.
func (s *Store) FindBranch(ctx context.Context, id string) (*models.Branch, error) {
	if !validID(id) {
		return nil, nil
	}
	var branch models.Branch
	res := s.db.WithContext(ctx).
		Preload("AlertConfig").
		Where("id = ?", id).
		Limit(1).
		Find(&branch)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &branch, nil
}

// FindBranchWithScales also loads the branch's scales, by label, each with
// its override.
func (s *Store) FindBranchWithScales(ctx context.Context, id string) (*models.Branch, error) {
	if !validID(id) {
		return nil, nil
	}
	var branch models.Branch
	res := s.db.WithContext(ctx).
		Preload("AlertConfig").
		Preload("Scales", func(db *gorm.DB) *gorm.DB {
			return db.Order("label ASC")
		}).
		Preload("Scales.AlertConfig").
		Where("id = ?", id).
		Limit(1).
		Find(&branch)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &branch, nil
}
