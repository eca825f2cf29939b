package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BranchAccess grants a branch manager visibility of one branch.
type BranchAccess struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_branch_access_user_branch"`
	BranchID  string `gorm:"type:uuid;not null;uniqueIndex:idx_branch_access_user_branch"`
	Branch    *Branch
	CreatedAt time.Time
}

func (BranchAccess) TableName() string {
	return "branch_access"
}

func (a *BranchAccess) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
