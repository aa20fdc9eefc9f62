// Package reset gates the destructive ledger-clearing operations. A
// single-user reset is immediate; the global reset requires a privileged
// request followed by a privileged confirmation.
package reset

import (
	"sync"

	"github.com/rs/zerolog"

	"trade-journal/internal/errors"
)

// Resetter is the slice of the ledger store the guard needs.
type Resetter interface {
	ResetUser(userID string) error
	ResetAll() error
}

type state int

const (
	stateIdle state = iota
	stateAwaitingConfirmation
)

// ConfirmPrompt is returned by a successful global-reset request; the front
// end relays it verbatim.
const ConfirmPrompt = "This clears every user's journal. Send the confirm command to proceed, or cancel."

// Guard is the two-step confirmation state machine for the global reset.
// State is process-local and caller-ephemeral: no timer, just the contract
// that a second explicit confirm call is required.
type Guard struct {
	mu    sync.Mutex
	state state
	store Resetter
	log   zerolog.Logger
}

// NewGuard creates a guard over the given store.
func NewGuard(store Resetter, logger zerolog.Logger) *Guard {
	return &Guard{
		store: store,
		log:   logger,
	}
}

// RequestGlobalReset arms the confirmation gate. Unprivileged callers are
// rejected without any state change.
func (g *Guard) RequestGlobalReset(isPrivileged bool) (string, error) {
	if !isPrivileged {
		return "", errors.ErrPermissionDenied
	}

	g.mu.Lock()
	g.state = stateAwaitingConfirmation
	g.mu.Unlock()

	g.log.Warn().Msg("Global reset requested, awaiting confirmation")
	return ConfirmPrompt, nil
}

// ConfirmGlobalReset performs the global reset if one was requested. The
// gate returns to idle whether the store reset succeeds or not; a failed
// persist must be re-requested from scratch.
func (g *Guard) ConfirmGlobalReset(isPrivileged bool) error {
	if !isPrivileged {
		return errors.ErrPermissionDenied
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateAwaitingConfirmation {
		return errors.ErrNoResetPending
	}
	g.state = stateIdle

	if err := g.store.ResetAll(); err != nil {
		return err
	}
	g.log.Warn().Msg("Global reset confirmed and applied")
	return nil
}

// CancelGlobalReset disarms a pending global reset without touching the
// store. Safe to call when nothing is pending.
func (g *Guard) CancelGlobalReset() {
	g.mu.Lock()
	g.state = stateIdle
	g.mu.Unlock()
}

// Pending reports whether a global reset awaits confirmation.
func (g *Guard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == stateAwaitingConfirmation
}

// RequestUserReset clears a single user's ledger immediately. Callers act on
// their own id, so no confirmation step applies.
func (g *Guard) RequestUserReset(userID string) error {
	return g.store.ResetUser(userID)
}
