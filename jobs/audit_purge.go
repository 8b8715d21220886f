package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/portiva/portiva/internal/audit"
)

// AuditPurger handles TaskAuditPurge tasks against the audit service.
type AuditPurger struct {
	service *audit.Service
	logger  *slog.Logger
}

// NewAuditPurger constructs an AuditPurger.
func NewAuditPurger(service *audit.Service, logger *slog.Logger) *AuditPurger {
	return &AuditPurger{service: service, logger: logger}
}

// Handle processes one purge task.
func (p *AuditPurger) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Retention <= 0 {
		payload.Retention = 720 * time.Hour
	}
	deleted, err := p.service.Purge(ctx, payload.Retention)
	if err != nil {
		p.logger.Error("audit purge", slog.Any("error", err))
		return err
	}
	p.logger.Info("audit purge complete", slog.Int64("deleted", deleted))
	return nil
}
