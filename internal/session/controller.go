// Package session composes the credential store, access guard, menu filter
// and profile gate into one decision per navigation. All session mutation
// funnels through Login and Logout here; no other component writes the
// credential or the cached principal.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/portiva/portiva/internal/credential"
	"github.com/portiva/portiva/internal/gate"
	"github.com/portiva/portiva/internal/guard"
	"github.com/portiva/portiva/internal/menu"
	"github.com/portiva/portiva/internal/shared"
)

// ProfileCreatePath is where the gate's "complete profile" exit sends the user.
const ProfileCreatePath = "/biodata/create"

// publicScreens render without an established session.
var publicScreens = map[string]bool{
	"home":  true,
	"login": true,
}

// Controller runs the decision pipeline for one browser session.
type Controller struct {
	sessionID string
	store     credential.Store
	guard     *guard.Guard
	gate      *gate.Gate
	tree      menu.Tree
	logger    *slog.Logger

	// nav is the navigation sequence. A navigation whose sequence number is
	// no longer current when it finishes is superseded and its outcome is
	// discarded, never emitted (last-navigation-wins).
	nav    atomic.Uint64
	gateMu sync.Mutex
}

// NewController constructs a Controller for sessionID.
func NewController(sessionID string, store credential.Store, g *guard.Guard, pg *gate.Gate, tree menu.Tree, logger *slog.Logger) *Controller {
	return &Controller{
		sessionID: sessionID,
		store:     store,
		guard:     g,
		gate:      pg,
		tree:      tree,
		logger:    logger,
	}
}

// Navigate evaluates one navigation event and emits a fresh Decision.
// Sequencing within the event is strict: guard first, then menu filter and
// gate, which are meaningless without a resolved principal. Denied access
// emits immediately with no menu or gate computation, so no profile lookup
// is ever spent on a user being redirected away.
func (c *Controller) Navigate(ctx context.Context, screen string) (*Decision, error) {
	seq := c.nav.Add(1)

	res, err := c.guard.Check(ctx, c.sessionID)
	if err != nil {
		return nil, err
	}
	if c.superseded(seq) {
		return nil, shared.ErrSuperseded
	}

	if publicScreens[screen] {
		return c.publicDecision(screen, res), nil
	}

	if !res.Allowed() {
		return &Decision{
			ID:       uuid.New(),
			Screen:   screen,
			Allow:    false,
			Redirect: res.Redirect(),
			Menu:     menu.Tree{},
			Gate:     GateNone,
		}, nil
	}

	visible := menu.Filter(c.tree, res.Principal.Role)

	token, err := c.store.Get(ctx, c.sessionID)
	if err != nil {
		// Token vanished between guard and gate: treat as the mid-flight
		// logout case and deny.
		return &Decision{
			ID:       uuid.New(),
			Screen:   screen,
			Allow:    false,
			Redirect: guard.TargetLogin,
			Menu:     menu.Tree{},
			Gate:     GateNone,
		}, nil
	}

	c.gateMu.Lock()
	state := c.gate.Evaluate(ctx, token, res.Principal)
	c.gateMu.Unlock()

	if c.superseded(seq) {
		return nil, shared.ErrSuperseded
	}

	return &Decision{
		ID:        uuid.New(),
		Screen:    screen,
		Allow:     true,
		Redirect:  guard.TargetNone,
		Menu:      visible,
		Gate:      gateRequirement(state),
		Principal: res.Principal,
	}, nil
}

// publicDecision handles the screens that render without a session. An
// already-authenticated visitor on the login screen is sent home instead.
func (c *Controller) publicDecision(screen string, res guard.Result) *Decision {
	redirect := guard.TargetNone
	if screen == "login" && res.Allowed() {
		redirect = guard.TargetHome
	}
	d := &Decision{
		ID:       uuid.New(),
		Screen:   screen,
		Allow:    true,
		Redirect: redirect,
		Menu:     menu.Tree{},
		Gate:     GateNone,
	}
	if res.Allowed() {
		d.Principal = res.Principal
	}
	return d
}

// Login stores the freshly issued token. This is the sole entry point that
// establishes a session; the gate restarts for the new principal.
func (c *Controller) Login(ctx context.Context, token string) error {
	if err := c.store.Set(ctx, c.sessionID, token); err != nil {
		return err
	}
	c.gateMu.Lock()
	c.gate.Reset()
	c.gateMu.Unlock()
	return nil
}

// Logout clears the credential and resets the gate. Callable both from the
// sign-out UI and from the gate's terminate exit; clearing twice is a no-op.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx, c.sessionID); err != nil {
		return err
	}
	c.gateMu.Lock()
	c.gate.Reset()
	c.gateMu.Unlock()
	c.log().Info("session terminated", slog.String("session", c.sessionID))
	return nil
}

// CompleteProfile is the gate's first exit: the user heads to the profile
// creation flow and the gate re-evaluates on the next navigation.
func (c *Controller) CompleteProfile() string {
	c.gateMu.Lock()
	c.gate.Reset()
	c.gateMu.Unlock()
	return ProfileCreatePath
}

// GateState exposes the current gate state for routing queries.
func (c *Controller) GateState() gate.State {
	c.gateMu.Lock()
	defer c.gateMu.Unlock()
	return c.gate.State()
}

func (c *Controller) superseded(seq uint64) bool {
	return c.nav.Load() != seq
}

func (c *Controller) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
