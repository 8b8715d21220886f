package audit

import (
	"context"
	"time"
)

// Kind labels an audited session event.
type Kind string

const (
	KindDecision Kind = "decision"
	KindLogin    Kind = "login"
	KindLogout   Kind = "logout"
)

// Event is one recorded session event.
type Event struct {
	ID          int64     `json:"id"`
	OccurredAt  time.Time `json:"occurredAt"`
	SessionID   string    `json:"sessionId"`
	Kind        Kind      `json:"kind"`
	Screen      string    `json:"screen,omitempty"`
	Outcome     string    `json:"outcome"`
	Role        string    `json:"role,omitempty"`
	PrincipalID *int64    `json:"principalId,omitempty"`
}

// Store persists and queries audit events.
type Store interface {
	Insert(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
