package ingest

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scale-monitor-backend/internal/apperr"
)

func TestIngestWeightHandler(t *testing.T) {
	tests := []struct {
		name       string
		deviceID   string
		key        string
		body       string
		wantStatus int
	}{
		{"accepted", "SCALE-001", "devkey-001", `{"timestamp":"2024-01-01T00:00:00Z","weight":5.2}`, fiber.StatusCreated},
		{"with battery and status", "SCALE-001", "devkey-001", `{"timestamp":"2024-01-01T00:00:00Z","weight":5.2,"battery":87,"status":"ok"}`, fiber.StatusCreated},
		{"wrong key", "SCALE-001", "bad", `{"timestamp":"2024-01-01T00:00:00Z","weight":5.2}`, fiber.StatusUnauthorized},
		{"no headers", "", "", `{"timestamp":"2024-01-01T00:00:00Z","weight":5.2}`, fiber.StatusUnauthorized},
		{"bad timestamp", "SCALE-001", "devkey-001", `{"timestamp":"not-a-date","weight":5.2}`, fiber.StatusUnprocessableEntity},
		{"broken json", "SCALE-001", "devkey-001", `{"timestamp":`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(t)
			app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberErrorHandler(zap.NewNop())})
			app.Post("/ingest/weight", IngestWeightHandler(NewService(store, zap.NewNop())))

			req := httptest.NewRequest("POST", "/ingest/weight", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.deviceID != "" {
				req.Header.Set(HeaderDeviceID, tt.deviceID)
			}
			if tt.key != "" {
				req.Header.Set(HeaderDeviceKey, tt.key)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusCreated {
				var ack map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
				assert.Equal(t, true, ack["accepted"])
				assert.Equal(t, "north", ack["branchId"])
				assert.Equal(t, "SCALE-001", ack["deviceId"])
				assert.Equal(t, "reading-1", ack["readingId"])
			} else {
				assert.Empty(t, store.created)
			}
		})
	}
}
