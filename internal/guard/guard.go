// Package guard decides, per navigation, whether the current session may
// see a protected screen. It replaces the original per-screen
// "check token in storage, else redirect" duplication with one policy.
package guard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/portiva/portiva/internal/credential"
	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/shared"
)

// Status is the outcome of one guard evaluation.
type Status int

const (
	// Allowed means a principal was resolved for the stored token.
	Allowed Status = iota
	// DeniedNoToken means nothing is stored; decided locally, no network call.
	DeniedNoToken
	// DeniedResolutionFailed means a token exists but resolution failed.
	// Behaviorally identical to DeniedNoToken; kept distinct for logging only.
	DeniedResolutionFailed
)

// Target names where a denied session is sent.
type Target string

const (
	TargetNone  Target = "none"
	TargetLogin Target = "login"
	TargetHome  Target = "home"
)

// Result carries the guard verdict and, when allowed, the principal.
type Result struct {
	Status    Status
	Principal *identity.Principal
}

// Allowed reports whether the navigation may proceed.
func (r Result) Allowed() bool {
	return r.Status == Allowed
}

// Redirect returns where a denied session goes. Both denial states redirect
// identically so the response never leaks which failure occurred.
func (r Result) Redirect() Target {
	if r.Allowed() {
		return TargetNone
	}
	return TargetLogin
}

// Guard combines the credential store and the identity resolver. It holds
// no state of its own: re-running with unchanged inputs yields the same
// decision.
type Guard struct {
	store    credential.Store
	resolver identity.Resolver
	logger   *slog.Logger

	onResolveFailure func()
}

// New constructs a Guard.
func New(store credential.Store, resolver identity.Resolver, logger *slog.Logger) *Guard {
	return &Guard{store: store, resolver: resolver, logger: logger}
}

// OnResolveFailure registers a callback invoked each time a navigation is
// denied because identity resolution failed.
func (g *Guard) OnResolveFailure(fn func()) {
	g.onResolveFailure = fn
}

// Check evaluates access for the session. The local token presence check
// runs before any network call; after a successful resolve the presence is
// re-checked so a logout racing the resolve still denies.
func (g *Guard) Check(ctx context.Context, sessionID string) (Result, error) {
	token, err := g.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNoCredential) {
			return Result{Status: DeniedNoToken}, nil
		}
		return Result{}, err
	}

	principal, err := g.resolver.Resolve(ctx, token)
	if err != nil {
		g.log().Info("denied: resolution failed", slog.String("session", sessionID))
		if g.onResolveFailure != nil {
			g.onResolveFailure()
		}
		return Result{Status: DeniedResolutionFailed}, nil
	}

	// Token may have been cleared while the resolve was in flight.
	has, err := g.store.Has(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if !has {
		g.log().Info("denied: token cleared mid-flight", slog.String("session", sessionID))
		return Result{Status: DeniedNoToken}, nil
	}

	return Result{Status: Allowed, Principal: principal}, nil
}

func (g *Guard) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
