package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parkwell-gh/parkwell/internal/data"
)

func (h *testHarness) reserveWallet(t *testing.T, spotID int64, userID string) *ReserveResult {
	t.Helper()

	result, err := h.engine.Reserve(context.Background(), ReserveRequest{
		SpotID:        spotID,
		UserID:        userID,
		PaymentMethod: PaymentMethodWallet,
	})
	require.NoError(t, err)
	return result
}

func TestCancelRestoresCapacity(t *testing.T) {
	h := newTestEngine(t)

	spot := h.addSpot(t, "Revolving Door", 10, 1)
	user := h.addUser(t, "Amal", 50)

	h.reserveWallet(t, spot.ID, user.ID)

	require.NoError(t, h.engine.Cancel(spot.ID, Requester{UserID: user.ID}))

	got, err := h.engine.Spot(spot.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Available)

	_, err = h.engine.Session(spot.ID)
	require.ErrorIs(t, err, data.ErrRecordNotFound)

	require.Contains(t, h.notifier.types(), EventCancellation)
}

func TestCancelOwnershipCheck(t *testing.T) {
	h := newTestEngine(t)

	spot := h.addSpot(t, "Mine", 10, 1)
	owner := h.addUser(t, "Amal", 50)
	other := h.addUser(t, "Nimal", 50)

	h.reserveWallet(t, spot.ID, owner.ID)

	require.ErrorIs(t, h.engine.Cancel(spot.ID, Requester{UserID: other.ID}), data.ErrNotPermitted)

	// Admins can cancel anyone's session.
	require.NoError(t, h.engine.Cancel(spot.ID, Requester{Admin: true}))
}

func TestCancelWithoutSession(t *testing.T) {
	h := newTestEngine(t)
	spot := h.addSpot(t, "Idle", 10, 1)

	require.ErrorIs(t, h.engine.Cancel(spot.ID, Requester{Admin: true}), data.ErrRecordNotFound)
}

func TestForceEndSession(t *testing.T) {
	h := newTestEngine(t)

	spot := h.addSpot(t, "Contested", 10, 1)
	user := h.addUser(t, "Amal", 50)

	h.reserveWallet(t, spot.ID, user.ID)

	require.NoError(t, h.engine.ForceEndSession(spot.ID))
	require.Contains(t, h.notifier.types(), EventForceEndSession)

	require.ErrorIs(t, h.engine.ForceEndSession(spot.ID), data.ErrRecordNotFound)
}

func TestSweepExpiredSessions(t *testing.T) {
	h := newTestEngine(t)

	expired := h.addSpot(t, "Expired", 10, 1)
	active := h.addSpot(t, "Active", 10, 1)
	user := h.addUser(t, "Amal", 100)

	h.reserveWallet(t, expired.ID, user.ID)

	result, err := h.engine.Reserve(context.Background(), ReserveRequest{
		SpotID:        active.ID,
		UserID:        user.ID,
		PaymentMethod: PaymentMethodWallet,
		DurationHours: 5,
	})
	require.NoError(t, err)

	// Sweep two hours from now: the default one-hour session has lapsed,
	// the five-hour one has not.
	swept := h.engine.SweepExpiredSessions(time.Now().Add(2 * time.Hour))
	require.Len(t, swept, 1)
	require.Equal(t, expired.ID, swept[0].SpotID)

	got, err := h.engine.Spot(expired.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Available)

	stillThere, err := h.engine.Session(active.ID)
	require.NoError(t, err)
	require.Equal(t, result.Session.PaymentRef, stillThere.PaymentRef)
}

func TestActiveSessionsOrderedBySpot(t *testing.T) {
	h := newTestEngine(t)

	b := h.addSpot(t, "B", 10, 1)
	a := h.addSpot(t, "A", 10, 1)
	user := h.addUser(t, "Amal", 100)

	h.reserveWallet(t, b.ID, user.ID)
	h.reserveWallet(t, a.ID, user.ID)

	sessions := h.engine.ActiveSessions()
	require.Len(t, sessions, 2)
	require.Less(t, sessions[0].SpotID, sessions[1].SpotID)
}
