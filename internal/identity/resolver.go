package identity

import (
	"context"
	"errors"
)

// ErrResolveFailed is the single failure class for identity resolution.
// Network outage, expired token and malformed responses are deliberately
// indistinguishable to callers: all of them mean "no session" (fail closed).
var ErrResolveFailed = errors.New("identity: resolve failed")

// Resolver exchanges a stored bearer token for the authenticated principal.
// Implementations must be idempotent, must not mutate server state and must
// never clear the credential store on failure; terminating a session is the
// controller's decision, not the resolver's.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
}
