package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionUpsert AuditAction = "upsert"
	AuditActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// Branch the changed entity belongs to.
	BranchID string `gorm:"type:uuid;index;not null" json:"branchId"`

	UserID    string `gorm:"type:uuid;not null" json:"userId"`
	UserEmail string `gorm:"size:100" json:"userEmail"`

	// "branch_alert_config" or "scale_alert_config"
	EntityType string `gorm:"size:50;index" json:"entityType"`
	EntityID   string `gorm:"size:64;index" json:"entityId"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	BeforeData string `gorm:"type:jsonb" json:"beforeData"`
	AfterData  string `gorm:"type:jsonb" json:"afterData"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
