package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/jsonlog"
	"github.com/parkwell-gh/parkwell/internal/store"
)

type stubGateway struct {
	mu       sync.Mutex
	payments map[string]*GatewayPayment
	err      error
	calls    int
}

func (g *stubGateway) Verify(_ context.Context, reference string) (*GatewayPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	payment, ok := g.payments[reference]
	if !ok {
		return nil, fmt.Errorf("unknown reference %s", reference)
	}
	return payment, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	types := make([]string, len(n.events))
	for i, event := range n.events {
		types[i] = event.Type
	}
	return types
}

type testHarness struct {
	engine   *Engine
	store    store.Store
	gateway  *stubGateway
	notifier *recordingNotifier
}

func newTestEngine(t *testing.T, modify ...func(*Config)) *testHarness {
	t.Helper()

	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	gateway := &stubGateway{payments: map[string]*GatewayPayment{}}
	notifier := &recordingNotifier{}

	cfg := Config{
		Store:    fileStore,
		Notifier: notifier,
		Gateway:  gateway,
		Logger:   jsonlog.New(io.Discard, jsonlog.LevelOff),
	}
	for _, fn := range modify {
		fn(&cfg)
	}

	return &testHarness{
		engine:   New(cfg),
		store:    fileStore,
		gateway:  gateway,
		notifier: notifier,
	}
}

func (h *testHarness) addSpot(t *testing.T, name string, price float64, available int) *data.Spot {
	t.Helper()

	lat, lng := 6.9271, 79.8612
	draft := &data.SpotDraft{
		Name:      name,
		Lat:       &lat,
		Lng:       &lng,
		Price:     &price,
		Available: &available,
	}
	spot, err := h.engine.CreateSpot(draft, Requester{Admin: true})
	require.NoError(t, err)
	return spot
}

func (h *testHarness) addUser(t *testing.T, name string, balance float64) *data.User {
	t.Helper()

	user, err := h.engine.CreateUser(name, "")
	require.NoError(t, err)

	h.engine.mu.Lock()
	h.engine.users[user.ID].WalletBalance = balance
	h.engine.mu.Unlock()

	user.WalletBalance = balance
	return user
}

func TestEngineReloadsCommittedState(t *testing.T) {
	dir := t.TempDir()

	fileStore, err := store.NewFileStore(dir)
	require.NoError(t, err)

	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)

	first := New(Config{Store: fileStore, Logger: logger})

	lat, lng, price := 6.9271, 79.8612, 10.0
	available := 3
	spot, err := first.CreateSpot(&data.SpotDraft{
		Name: "Fort Car Park", Lat: &lat, Lng: &lng, Price: &price, Available: &available,
	}, Requester{Admin: true})
	require.NoError(t, err)

	user, err := first.CreateUser("Amal", "amal@example.com")
	require.NoError(t, err)

	reopenedStore, err := store.NewFileStore(dir)
	require.NoError(t, err)

	second := New(Config{Store: reopenedStore, Logger: logger})

	got, err := second.Spot(spot.ID)
	require.NoError(t, err)
	require.Equal(t, spot.Name, got.Name)
	require.Equal(t, spot.QRCodeID, got.QRCodeID)

	gotUser, err := second.User(user.ID)
	require.NoError(t, err)
	require.Equal(t, "Amal", gotUser.Name)
	require.Equal(t, data.TierBronze, gotUser.Tier)
}

func TestSpotIDsAreMaxPlusOne(t *testing.T) {
	h := newTestEngine(t)

	a := h.addSpot(t, "A", 5, 1)
	b := h.addSpot(t, "B", 5, 1)
	require.Equal(t, a.ID+1, b.ID)

	require.NoError(t, h.engine.DeleteSpot(a.ID, Requester{Admin: true}))

	c := h.addSpot(t, "C", 5, 1)
	require.Equal(t, b.ID+1, c.ID)
}
