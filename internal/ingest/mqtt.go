package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MQTTMessage is the payload published on scales/<deviceId>/weight. The key
// travels in the body because MQTT has no per-message headers.
type MQTTMessage struct {
	DeviceKey string `json:"deviceKey"`
	Payload
}

// Subscriber feeds MQTT messages through the same Ingest path as HTTP.
type Subscriber struct {
	svc     *Service
	pattern []string
	log     *zap.Logger
}

// NewSubscriber takes the subscription pattern; its single '+' level marks
// where the device id sits in the topic.
func NewSubscriber(svc *Service, pattern string, log *zap.Logger) (*Subscriber, error) {
	levels := strings.Split(pattern, "/")
	wildcards := 0
	for _, l := range levels {
		if l == "+" {
			wildcards++
		}
		if l == "#" {
			return nil, fmt.Errorf("topic pattern %q: '#' is not supported", pattern)
		}
	}
	if wildcards != 1 {
		return nil, fmt.Errorf("topic pattern %q must contain exactly one '+' level", pattern)
	}
	return &Subscriber{svc: svc, pattern: levels, log: log}, nil
}

// DeviceID extracts the device id from a concrete topic.
func (s *Subscriber) DeviceID(topic string) (string, error) {
	levels := strings.Split(topic, "/")
	if len(levels) != len(s.pattern) {
		return "", fmt.Errorf("topic %q does not match pattern", topic)
	}
	var id string
	for i, p := range s.pattern {
		switch {
		case p == "+":
			id = levels[i]
		case p != levels[i]:
			return "", fmt.Errorf("topic %q does not match pattern", topic)
		}
	}
	if id == "" {
		return "", fmt.Errorf("topic %q has an empty device id", topic)
	}
	return id, nil
}

// HandleMessage matches mqtt.MessageHandler.
func (s *Subscriber) HandleMessage(topic string, payload []byte) error {
	deviceID, err := s.DeviceID(topic)
	if err != nil {
		return err
	}

	var msg MQTTMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding payload from %s: %w", deviceID, err)
	}

	ack, err := s.svc.Ingest(context.Background(), deviceID, msg.DeviceKey, msg.Payload)
	if err != nil {
		return err
	}
	s.log.Debug("mqtt reading accepted", zap.String("device_id", ack.DeviceID), zap.String("reading_id", ack.ReadingID))
	return nil
}
