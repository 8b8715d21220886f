package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portiva/portiva/internal/audit"
)

type purgeStore struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (s *purgeStore) Insert(ctx context.Context, event audit.Event) error { return nil }

func (s *purgeStore) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return nil, nil
}

func (s *purgeStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, s.err
}

func TestAuditPurgerDeletesOldEvents(t *testing.T) {
	store := &purgeStore{deleted: 42}
	service := audit.NewService(store, slog.Default())
	purger := NewAuditPurger(service, slog.Default())

	task, err := NewAuditPurgeTask(AuditPurgePayload{Retention: 48 * time.Hour})
	require.NoError(t, err)

	err = purger.Handle(context.Background(), task)
	require.NoError(t, err)

	expected := time.Now().UTC().Add(-48 * time.Hour)
	assert.WithinDuration(t, expected, store.cutoff, 2*time.Second)
}

func TestAuditPurgerDefaultsRetention(t *testing.T) {
	store := &purgeStore{}
	service := audit.NewService(store, slog.Default())
	purger := NewAuditPurger(service, slog.Default())

	task, err := NewAuditPurgeTask(AuditPurgePayload{})
	require.NoError(t, err)

	err = purger.Handle(context.Background(), task)
	require.NoError(t, err)

	expected := time.Now().UTC().Add(-720 * time.Hour)
	assert.WithinDuration(t, expected, store.cutoff, 2*time.Second)
}

func TestAuditPurgerSkipsRetryOnBadPayload(t *testing.T) {
	store := &purgeStore{}
	service := audit.NewService(store, slog.Default())
	purger := NewAuditPurger(service, slog.Default())

	task := asynq.NewTask(TaskAuditPurge, []byte("not-json"))

	err := purger.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.True(t, store.cutoff.IsZero())
}

func TestAuditPurgerPropagatesStoreError(t *testing.T) {
	store := &purgeStore{err: errors.New("boom")}
	service := audit.NewService(store, slog.Default())
	purger := NewAuditPurger(service, slog.Default())

	task, err := NewAuditPurgeTask(AuditPurgePayload{Retention: time.Hour})
	require.NoError(t, err)

	err = purger.Handle(context.Background(), task)
	assert.Error(t, err)
}
