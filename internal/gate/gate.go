// Package gate implements the profile-completeness gate: after access is
// granted, accounts whose role requires a biodata profile are blocked until
// the profile exists or the session is terminated. The blocked condition is
// an explicit state, not a UI flag, so routing can ask "is the session
// gated?" without depending on modal visibility.
package gate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/shared"
)

// State is the gate lifecycle per authenticated session.
type State string

const (
	// NotChecked means no definitive lookup has completed yet.
	NotChecked State = "not_checked"
	// Checking means a lookup is in flight.
	Checking State = "checking"
	// Satisfied means the profile exists, or the role is exempt.
	Satisfied State = "satisfied"
	// MustComplete blocks normal interaction: the user either completes the
	// profile or terminates the session. There is no third exit.
	MustComplete State = "must_complete"
)

// Blocking reports whether the state suspends normal screen interaction.
func (s State) Blocking() bool {
	return s == MustComplete
}

// ProfileLookup asks the upstream whether the principal owns a profile.
// nil means found; shared.ErrProfileNotFound is the definitive negative;
// any other error is transient and must not force the gate.
type ProfileLookup interface {
	LookupProfile(ctx context.Context, token string, principal *identity.Principal) error
}

// Gate tracks profile-completeness for one session.
type Gate struct {
	lookup ProfileLookup
	logger *slog.Logger
	state  State
}

// New constructs a Gate in NotChecked.
func New(lookup ProfileLookup, logger *slog.Logger) *Gate {
	return &Gate{lookup: lookup, logger: logger, state: NotChecked}
}

// State returns the current gate state.
func (g *Gate) State() State {
	return g.state
}

// Evaluate advances the gate for the principal. Roles that do not own a
// profile resource skip the lookup entirely and are trivially satisfied.
// A transient lookup failure leaves the gate NotChecked so the next
// navigation retries; it never fails open and never forces MustComplete.
func (g *Gate) Evaluate(ctx context.Context, token string, principal *identity.Principal) State {
	if principal == nil || !principal.Role.RequiresProfile() {
		g.state = Satisfied
		return g.state
	}
	switch g.state {
	case Satisfied, MustComplete:
		// Definitive answers stick until Reset or termination.
		return g.state
	}

	g.state = Checking
	err := g.lookup.LookupProfile(ctx, token, principal)
	switch {
	case err == nil:
		g.state = Satisfied
	case errors.Is(err, shared.ErrProfileNotFound):
		g.log().Info("profile missing, gating session",
			slog.Int64("principal", principal.ID),
			slog.String("role", string(principal.Role)))
		g.state = MustComplete
	default:
		g.log().Warn("profile lookup inconclusive", slog.Any("error", err))
		g.state = NotChecked
	}
	return g.state
}

// Reset returns the gate to NotChecked. Called when the user chooses the
// profile-creation exit so the next navigation re-evaluates, and on
// login/logout transitions.
func (g *Gate) Reset() {
	g.state = NotChecked
}

func (g *Gate) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
