package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists audit events in the access_audit table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore backed by the provided pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert stores a single event.
func (s *PostgresStore) Insert(ctx context.Context, event Event) error {
	at := event.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO access_audit (occurred_at, session_id, kind, screen, outcome, role, principal_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		at, event.SessionID, string(event.Kind), event.Screen, event.Outcome, event.Role, event.PrincipalID,
	)
	return err
}

// ListRecent returns the newest events, newest first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, occurred_at, session_id, kind, screen, outcome, role, principal_id
		 FROM access_audit
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.SessionID, &kind, &e.Screen, &e.Outcome, &e.Role, &e.PrincipalID); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// PurgeOlderThan deletes events recorded before cutoff and reports how many.
func (s *PostgresStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM access_audit WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
