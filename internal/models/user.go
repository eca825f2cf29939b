package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleGlobalManager UserRole = "GLOBAL_MANAGER"
	RoleBranchManager UserRole = "BRANCH_MANAGER"
)

// Valid reports whether r is one of the two dashboard roles.
func (r UserRole) Valid() bool {
	return r == RoleGlobalManager || r == RoleBranchManager
}

type User struct {
	ID           string   `gorm:"type:uuid;primaryKey"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	Name         string   `gorm:"size:100;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	BranchAccess []BranchAccess
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// GrantedBranchIDs returns the branch ids carried in a session token.
// Global managers get an empty list; their role alone grants access.
func (u *User) GrantedBranchIDs() []string {
	ids := make([]string, 0, len(u.BranchAccess))
	if u.Role == RoleGlobalManager {
		return ids
	}
	for _, a := range u.BranchAccess {
		ids = append(ids, a.BranchID)
	}
	return ids
}
