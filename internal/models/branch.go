package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Branch struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Code      string `gorm:"size:50;not null;uniqueIndex"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	AlertConfig *BranchAlertConfig
	Scales      []Scale
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
