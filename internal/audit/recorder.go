package audit

import (
	"context"
	"encoding/json"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/models"

	"go.uber.org/zap"
)

const (
	EntityBranchAlertConfig = "branch_alert_config"
	EntityScaleAlertConfig  = "scale_alert_config"
)

type Writer interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Entry describes one configuration change. Before and After are stored as
// JSON; nil is stored as JSON null.
type Entry struct {
	BranchID    string
	Actor       *access.Actor
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Recorder writes audit entries. Failures are logged and never returned, so
// a broken audit table cannot fail the change it describes.
type Recorder struct {
	store Writer
	log   *zap.Logger
}

func NewRecorder(store Writer, log *zap.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	entry := models.AuditLog{
		BranchID:    e.BranchID,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  marshalData(e.Before),
		AfterData:   marshalData(e.After),
	}
	if e.Actor != nil {
		entry.UserID = e.Actor.UserID
		entry.UserEmail = e.Actor.Email
	}

	if err := r.store.CreateAuditLog(ctx, &entry); err != nil {
		r.log.Error("audit log write failed",
			zap.String("entity_type", e.EntityType),
			zap.String("entity_id", e.EntityID),
			zap.Error(err),
		)
	}
}

// jsonb columns reject an empty string, so absent data is "null".
func marshalData(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
