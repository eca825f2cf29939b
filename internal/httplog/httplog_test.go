package httplog

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"scale-monitor-backend/internal/apperr"
)

func TestNew(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberErrorHandler(zap.NewNop())})
	app.Use(New(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/forbidden", func(c *fiber.Ctx) error { return apperr.Forbidden("No access to requested branch") })

	tests := []struct {
		path       string
		wantStatus int
		wantLevel  zapcore.Level
	}{
		{"/ok", fiber.StatusOK, zapcore.InfoLevel},
		{"/forbidden", fiber.StatusForbidden, zapcore.WarnLevel},
		{"/missing", fiber.StatusNotFound, zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := logs.Len()
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			require.Equal(t, before+1, logs.Len())
			entry := logs.All()[before]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, int64(tt.wantStatus), entry.ContextMap()["status"])
			assert.Equal(t, tt.path, entry.ContextMap()["path"])
		})
	}
}
