package store

import (
	"context"

	"scale-monitor-backend/internal/models"
)

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	res := s.db.WithContext(ctx).
		Preload("BranchAccess").
		Where("email = ?", email).
		Limit(1).
		Find(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	res := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}
