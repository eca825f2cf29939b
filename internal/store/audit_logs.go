package store

import (
	"context"

	"scale-monitor-backend/internal/models"
)

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListAuditLogs returns the newest entries, optionally limited to branchIDs
// (nil means every branch).
func (s *Store) ListAuditLogs(ctx context.Context, branchIDs []string, limit int) ([]models.AuditLog, error) {
	logs := make([]models.AuditLog, 0)
	branchIDs = validIDs(branchIDs)
	if branchIDs != nil && len(branchIDs) == 0 {
		return logs, nil
	}

	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if branchIDs != nil {
		q = q.Where("branch_id IN ?", branchIDs)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
