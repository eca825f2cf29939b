package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeightReading is immutable once stored. BranchID is copied from the scale at
// ingest time so range queries per branch need no join.
type WeightReading struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	BranchID   string `gorm:"type:uuid;not null;index:idx_readings_branch_recorded,priority:1"`
	ScaleID    string `gorm:"type:uuid;not null;index"`
	Scale      *Scale
	RecordedAt time.Time `gorm:"not null;index:idx_readings_branch_recorded,priority:2"`
	Weight     float64   `gorm:"type:double precision;not null"`
	Battery    *float64  `gorm:"type:double precision"`
	Status     *string   `gorm:"size:100"`
	CreatedAt  time.Time
}

func (r *WeightReading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// BranchReadingAggregate is one row of the per-branch comparison query.
type BranchReadingAggregate struct {
	BranchID         string     `gorm:"column:branch_id"`
	ReadingsCount    int64      `gorm:"column:readings_count"`
	AverageWeight    *float64   `gorm:"column:average_weight"`
	LatestRecordedAt *time.Time `gorm:"column:latest_recorded_at"`
}

// ReadingBucket is one point of a time-bucketed trend.
type ReadingBucket struct {
	Bucket        time.Time `gorm:"column:bucket"`
	AverageWeight float64   `gorm:"column:average_weight"`
	ReadingsCount int64     `gorm:"column:readings_count"`
}

// ReadingStats summarises a range of readings.
type ReadingStats struct {
	ReadingsCount int64    `gorm:"column:readings_count"`
	AverageWeight *float64 `gorm:"column:average_weight"`
	MinWeight     *float64 `gorm:"column:min_weight"`
	MaxWeight     *float64 `gorm:"column:max_weight"`
}
