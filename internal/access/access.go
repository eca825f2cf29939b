// Package access holds the authenticated actor and the one branch-scope rule
// every service relies on: a global manager sees every branch, a branch
// manager sees only the branches granted to it at login.
package access

import (
	"slices"

	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
)

// Actor is the identity behind a request, rebuilt from the session token.
// BranchIDs is fixed when the token is issued.
type Actor struct {
	UserID    string
	Email     string
	Role      models.UserRole
	BranchIDs []string
}

func (a *Actor) IsGlobal() bool {
	return a != nil && a.Role == models.RoleGlobalManager
}

// AssertBranchAccess fails with Forbidden unless the actor may touch branchID.
func AssertBranchAccess(actor *Actor, branchID string) error {
	if actor == nil {
		return apperr.Unauthorized("Missing session")
	}
	if actor.IsGlobal() {
		return nil
	}
	if !slices.Contains(actor.BranchIDs, branchID) {
		return apperr.Forbidden("No access to requested branch")
	}
	return nil
}

// ScopedBranchIDs returns nil when the actor is unrestricted, otherwise the
// granted ids (possibly empty).
func ScopedBranchIDs(actor *Actor) []string {
	if actor.IsGlobal() {
		return nil
	}
	ids := make([]string, len(actor.BranchIDs))
	copy(ids, actor.BranchIDs)
	return ids
}
