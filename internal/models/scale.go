package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scale is a weighing device. DeviceID is the identifier the device sends in
// its ingest headers; ID is internal.
type Scale struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	DeviceID   string `gorm:"size:100;not null;uniqueIndex"`
	APIKeyHash string `gorm:"size:255;not null"`
	Label      string `gorm:"size:100;not null"`
	BranchID   string `gorm:"type:uuid;not null;index"`
	Branch     *Branch
	Active     bool `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	AlertConfig *ScaleAlertConfig
}

func (s *Scale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
