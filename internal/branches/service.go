package branches

import (
	"context"
	"fmt"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
)

type Store interface {
	ListBranches(ctx context.Context, ids []string) ([]models.Branch, error)
}

type BranchResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the branches visible to the actor, ordered by name.
func (s *Service) List(ctx context.Context, actor *access.Actor) ([]BranchResponse, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Missing session")
	}

	ids := access.ScopedBranchIDs(actor)
	if ids != nil && len(ids) == 0 {
		return nil, apperr.Forbidden("No branch access configured for this user")
	}

	branches, err := s.store.ListBranches(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	resp := make([]BranchResponse, 0, len(branches))
	for _, b := range branches {
		resp = append(resp, BranchResponse{ID: b.ID, Code: b.Code, Name: b.Name})
	}
	return resp, nil
}
