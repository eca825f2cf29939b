package store

import (
	"context"

	"scale-monitor-backend/internal/models"
)

func (s *Store) FindScaleByDeviceID(ctx context.Context, deviceID string) (*models.Scale, error) {
	var scale models.Scale
	res := s.db.WithContext(ctx).Where("device_id = ?", deviceID).Limit(1).Find(&scale)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &scale, nil
}

// FindScale loads a scale by internal id with its override, if any.
func (s *Store) FindScale(ctx context.Context, id string) (*models.Scale, error) {
	if !validID(id) {
		return nil, nil
	}
	var scale models.Scale
	res := s.db.WithContext(ctx).
		Preload("AlertConfig").
		Where("id = ?", id).
		Limit(1).
		Find(&scale)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &scale, nil
}
