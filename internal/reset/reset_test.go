package reset

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/errors"
)

// fakeStore records which reset operations ran.
type fakeStore struct {
	userResets   []string
	globalResets int
	failAll      error
}

func (f *fakeStore) ResetUser(userID string) error {
	f.userResets = append(f.userResets, userID)
	return nil
}

func (f *fakeStore) ResetAll() error {
	if f.failAll != nil {
		return f.failAll
	}
	f.globalResets++
	return nil
}

func newTestGuard() (*Guard, *fakeStore) {
	store := &fakeStore{}
	return NewGuard(store, zerolog.Nop()), store
}

func TestRequestGlobalResetDeniedForUnprivileged(t *testing.T) {
	guard, store := newTestGuard()

	_, err := guard.RequestGlobalReset(false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPermissionDenied))
	assert.False(t, guard.Pending(), "a denied request must not arm the gate")
	assert.Zero(t, store.globalResets)
}

func TestConfirmGlobalResetDeniedForUnprivileged(t *testing.T) {
	guard, store := newTestGuard()
	_, err := guard.RequestGlobalReset(true)
	require.NoError(t, err)

	err = guard.ConfirmGlobalReset(false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPermissionDenied))
	assert.Zero(t, store.globalResets)
}

func TestGlobalResetRequiresTwoSteps(t *testing.T) {
	guard, store := newTestGuard()

	// Confirm without a request does nothing.
	err := guard.ConfirmGlobalReset(true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoResetPending))
	assert.Zero(t, store.globalResets)

	prompt, err := guard.RequestGlobalReset(true)
	require.NoError(t, err)
	assert.Equal(t, ConfirmPrompt, prompt)
	assert.True(t, guard.Pending())

	require.NoError(t, guard.ConfirmGlobalReset(true))
	assert.Equal(t, 1, store.globalResets)
	assert.False(t, guard.Pending())

	// The confirmation is consumed; a second confirm needs a new request.
	err = guard.ConfirmGlobalReset(true)
	assert.True(t, errors.Is(err, errors.ErrNoResetPending))
}

func TestCancelGlobalReset(t *testing.T) {
	guard, store := newTestGuard()

	_, err := guard.RequestGlobalReset(true)
	require.NoError(t, err)
	guard.CancelGlobalReset()
	assert.False(t, guard.Pending())

	err = guard.ConfirmGlobalReset(true)
	assert.True(t, errors.Is(err, errors.ErrNoResetPending))
	assert.Zero(t, store.globalResets)

	// Cancel with nothing pending is harmless.
	guard.CancelGlobalReset()
}

func TestConfirmGlobalResetDisarmsOnStoreFailure(t *testing.T) {
	store := &fakeStore{failAll: errors.NewPersistenceError("persist", "x", nil)}
	guard := NewGuard(store, zerolog.Nop())

	_, err := guard.RequestGlobalReset(true)
	require.NoError(t, err)

	err = guard.ConfirmGlobalReset(true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPersistence))
	assert.False(t, guard.Pending(), "a failed confirm must be re-requested from scratch")
}

func TestRequestUserResetIsImmediate(t *testing.T) {
	guard, store := newTestGuard()

	require.NoError(t, guard.RequestUserReset("alice"))
	assert.Equal(t, []string{"alice"}, store.userResets)
	assert.False(t, guard.Pending())
}
