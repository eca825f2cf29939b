package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fallback thresholds used when a branch has no stored configuration.
const (
	DefaultMinWeight         = 0.2
	DefaultMaxWeight         = 25.0
	DefaultStaleAfterMinutes = 30
)

type BranchAlertConfig struct {
	ID                string  `gorm:"type:uuid;primaryKey"`
	BranchID          string  `gorm:"type:uuid;not null;uniqueIndex"`
	MinWeight         float64 `gorm:"type:double precision;not null"`
	MaxWeight         float64 `gorm:"type:double precision;not null"`
	StaleAfterMinutes int     `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c *BranchAlertConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// DefaultBranchAlertConfig is the unsaved configuration reported for a branch
// that never had one written.
func DefaultBranchAlertConfig(branchID string) BranchAlertConfig {
	return BranchAlertConfig{
		BranchID:          branchID,
		MinWeight:         DefaultMinWeight,
		MaxWeight:         DefaultMaxWeight,
		StaleAfterMinutes: DefaultStaleAfterMinutes,
	}
}

// ScaleAlertConfig overrides branch thresholds field by field. A nil field
// inherits the branch value when alerts are evaluated.
type ScaleAlertConfig struct {
	ID                string   `gorm:"type:uuid;primaryKey"`
	ScaleID           string   `gorm:"type:uuid;not null;uniqueIndex"`
	MinWeight         *float64 `gorm:"type:double precision"`
	MaxWeight         *float64 `gorm:"type:double precision"`
	StaleAfterMinutes *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c *ScaleAlertConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
