package audit

import (
	"context"
	"log/slog"
	"time"
)

// Service records session events best-effort: a failed insert is logged and
// swallowed so the decision path is never blocked by the audit trail.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Record persists the event, logging on failure.
func (s *Service) Record(ctx context.Context, event Event) {
	if s == nil || s.store == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := s.store.Insert(ctx, event); err != nil {
		s.log().Warn("audit insert failed",
			slog.String("kind", string(event.Kind)),
			slog.Any("error", err))
	}
}

// Recent returns the newest events for the admin surface.
func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	return s.store.ListRecent(ctx, limit)
}

// Purge removes events older than the retention window.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.PurgeOlderThan(ctx, time.Now().UTC().Add(-retention))
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
