package audit

import (
	"context"
	"fmt"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Reader interface {
	ListAuditLogs(ctx context.Context, branchIDs []string, limit int) ([]models.AuditLog, error)
}

type Service struct {
	store Reader
}

func NewService(store Reader) *Service {
	return &Service{store: store}
}

// List returns the newest entries the actor may see. An empty branchID means
// every branch in the actor's scope.
func (s *Service) List(ctx context.Context, actor *access.Actor, branchID string, limit int) ([]models.AuditLog, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Missing session")
	}

	var scope []string
	if branchID != "" {
		if err := access.AssertBranchAccess(actor, branchID); err != nil {
			return nil, err
		}
		scope = []string{branchID}
	} else {
		scope = access.ScopedBranchIDs(actor)
		if scope != nil && len(scope) == 0 {
			return nil, apperr.Forbidden("No branch access configured for this user")
		}
	}

	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	logs, err := s.store.ListAuditLogs(ctx, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit logs: %w", err)
	}
	return logs, nil
}
