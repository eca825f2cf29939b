package ingest

import (
	"context"
	"fmt"
	"strings"

	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"
	"scale-monitor-backend/internal/timerange"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Store is what device ingest needs from persistence. FindScaleByDeviceID
// returns (nil, nil) for an unknown device.
type Store interface {
	FindScaleByDeviceID(ctx context.Context, deviceID string) (*models.Scale, error)
	CreateReading(ctx context.Context, reading *models.WeightReading) error
}

// Payload is one reading as sent by a device.
type Payload struct {
	Timestamp string   `json:"timestamp"`
	Weight    *float64 `json:"weight"`
	Battery   *float64 `json:"battery,omitempty"`
	Status    *string  `json:"status,omitempty"`
}

type Ack struct {
	Accepted  bool   `json:"accepted"`
	ReadingID string `json:"readingId"`
	BranchID  string `json:"branchId"`
	DeviceID  string `json:"deviceId"`
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Ingest authenticates the device and stores one reading attributed to the
// device's own branch and scale.
func (s *Service) Ingest(ctx context.Context, deviceID, apiKey string, p Payload) (*Ack, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || apiKey == "" {
		return nil, apperr.Unauthorized("Missing device credentials")
	}

	scale, err := s.store.FindScaleByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("loading device %s: %w", deviceID, err)
	}
	if scale == nil || !scale.Active {
		s.log.Warn("ingest from unknown or inactive device", zap.String("device_id", deviceID))
		return nil, apperr.Unauthorized("Unknown or inactive device")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(scale.APIKeyHash), []byte(apiKey)); err != nil {
		s.log.Warn("ingest with invalid device key", zap.String("device_id", deviceID))
		return nil, apperr.Unauthorized("Invalid device key")
	}

	recordedAt, err := timerange.ParseInstant(p.Timestamp)
	if err != nil {
		return nil, apperr.Unprocessable("Invalid timestamp")
	}
	if p.Weight == nil {
		return nil, apperr.Unprocessable("weight is required")
	}

	reading := &models.WeightReading{
		BranchID:   scale.BranchID,
		ScaleID:    scale.ID,
		RecordedAt: recordedAt,
		Weight:     *p.Weight,
		Battery:    p.Battery,
		Status:     p.Status,
	}
	if err := s.store.CreateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("storing reading for %s: %w", deviceID, err)
	}

	s.log.Debug("reading stored",
		zap.String("device_id", scale.DeviceID),
		zap.String("branch_id", scale.BranchID),
		zap.Float64("weight", reading.Weight),
	)

	return &Ack{
		Accepted:  true,
		ReadingID: reading.ID,
		BranchID:  scale.BranchID,
		DeviceID:  scale.DeviceID,
	}, nil
}
