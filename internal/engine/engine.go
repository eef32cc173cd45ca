// Package engine implements the inventory and booking consistency core: it
// owns the in-memory spot, session, ledger and user collections, serializes
// every mutation behind a single lock, and keeps the durable record store
// and change-event channel in step with committed state.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/jsonlog"
	"github.com/parkwell-gh/parkwell/internal/store"
)

// Requester identifies the caller of an engine operation. Authentication is
// the request layer's concern; the engine only consumes the resolved role
// flag and, for geofenced submissions, the caller's claimed position.
type Requester struct {
	UserID string
	Admin  bool
	Lat    *float64
	Lng    *float64
}

// GatewayPayment is the gateway-confirmed result for a payment reference.
// Only the confirmed amount is trusted for ledger accounting.
type GatewayPayment struct {
	Status   string
	Amount   float64
	Currency string
}

// Gateway verifies externally captured payment references. Implementations
// must bound the call; the engine treats any error, including timeouts, as
// settlement failure.
type Gateway interface {
	Verify(ctx context.Context, reference string) (*GatewayPayment, error)
}

// Config carries the engine's collaborators and mode flags.
type Config struct {
	Store    store.Store
	Notifier Notifier
	Gateway  Gateway
	Logger   *jsonlog.Logger

	// SkipVerification bypasses the gateway for external references. Only
	// permitted in non-production configuration; the caller is expected to
	// have logged the flag at startup.
	SkipVerification bool

	// AllowAnonymous permits reservations without a user id. Anonymous
	// bookings cannot use the wallet path and accrue no loyalty points.
	AllowAnonymous bool
}

type pendingWrite struct {
	collection string
	key        string
	tombstone  bool
}

// Engine is the single mutation path for all four collections. Every
// mutating operation runs as one critical section under mu; read-only
// operations take the lock briefly to deep-copy the committed state.
type Engine struct {
	mu sync.Mutex

	store    store.Store
	notifier Notifier
	gateway  Gateway
	logger   *jsonlog.Logger

	skipVerification bool
	allowAnonymous   bool

	spots    []*data.Spot
	sessions map[int64]*data.Session
	ledger   []*data.Transaction
	refs     map[string]struct{}
	users    map[string]*data.User

	undo []spotSnapshot
	redo []spotSnapshot

	pending   map[string]pendingWrite
	lastTxnID int64
}

// New builds an engine and loads all collections from the record store.
// A failed startup read defaults that collection to empty; the in-memory
// state is the source of truth for the rest of the process lifetime.
func New(cfg Config) *Engine {
	e := &Engine{
		store:            cfg.Store,
		notifier:         cfg.Notifier,
		gateway:          cfg.Gateway,
		logger:           cfg.Logger,
		skipVerification: cfg.SkipVerification,
		allowAnonymous:   cfg.AllowAnonymous,
		sessions:         make(map[int64]*data.Session),
		refs:             make(map[string]struct{}),
		users:            make(map[string]*data.User),
		pending:          make(map[string]pendingWrite),
	}

	e.load()

	return e
}

func (e *Engine) load() {
	for _, record := range e.loadCollection(store.CollectionSpots) {
		var spot data.Spot
		if err := json.Unmarshal(record.Data, &spot); err != nil {
			e.logger.PrintError(err, map[string]string{"collection": store.CollectionSpots, "key": record.Key})
			continue
		}
		e.spots = append(e.spots, &spot)
	}
	sort.Slice(e.spots, func(i, j int) bool { return e.spots[i].ID < e.spots[j].ID })

	for _, record := range e.loadCollection(store.CollectionSessions) {
		var session data.Session
		if err := json.Unmarshal(record.Data, &session); err != nil {
			e.logger.PrintError(err, map[string]string{"collection": store.CollectionSessions, "key": record.Key})
			continue
		}
		e.sessions[session.SpotID] = &session
	}

	for _, record := range e.loadCollection(store.CollectionTransactions) {
		var txn data.Transaction
		if err := json.Unmarshal(record.Data, &txn); err != nil {
			e.logger.PrintError(err, map[string]string{"collection": store.CollectionTransactions, "key": record.Key})
			continue
		}
		e.ledger = append(e.ledger, &txn)
	}
	sort.Slice(e.ledger, func(i, j int) bool { return e.ledger[i].ID < e.ledger[j].ID })

	for _, txn := range e.ledger {
		if txn.PaymentRef != "" {
			e.refs[txn.PaymentRef] = struct{}{}
		}
		if txn.ID > e.lastTxnID {
			e.lastTxnID = txn.ID
		}
	}

	for _, record := range e.loadCollection(store.CollectionUsers) {
		var user data.User
		if err := json.Unmarshal(record.Data, &user); err != nil {
			e.logger.PrintError(err, map[string]string{"collection": store.CollectionUsers, "key": record.Key})
			continue
		}
		e.users[user.ID] = &user
	}
}

func (e *Engine) loadCollection(collection string) []store.Record {
	records, err := e.store.List(context.Background(), collection)
	if err != nil {
		e.logger.PrintError(fmt.Errorf("loading collection %s: %w", collection, err), nil)
		return nil
	}
	return records
}

// nextTxnID issues time-ordered unique ledger ids, bumping past the last
// issued id when two transactions land in the same millisecond.
func (e *Engine) nextTxnID() int64 {
	id := time.Now().UnixMilli()
	if id <= e.lastTxnID {
		id = e.lastTxnID + 1
	}
	e.lastTxnID = id
	return id
}

func spotKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func txnKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// persistPut writes a record best-effort. Failures never propagate: the
// committed in-memory state stands, the write is logged and queued for
// retry on the next mutation. Must be called with mu held.
func (e *Engine) persistPut(collection, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		e.logger.PrintError(err, map[string]string{"collection": collection, "key": key})
		return
	}

	if err := e.store.Put(context.Background(), collection, key, raw); err != nil {
		e.logger.PrintError(fmt.Errorf("persisting %s/%s: %w", collection, key, err), nil)
		e.pending[collection+"/"+key] = pendingWrite{collection: collection, key: key}
	} else {
		delete(e.pending, collection+"/"+key)
	}
}

// persistDelete removes a record best-effort, queueing a tombstone on
// failure. Must be called with mu held.
func (e *Engine) persistDelete(collection, key string) {
	if err := e.store.Delete(context.Background(), collection, key); err != nil {
		e.logger.PrintError(fmt.Errorf("deleting %s/%s: %w", collection, key, err), nil)
		e.pending[collection+"/"+key] = pendingWrite{collection: collection, key: key, tombstone: true}
	} else {
		delete(e.pending, collection+"/"+key)
	}
}

// retryPending re-attempts earlier failed writes against the current
// committed state. Called at the start of every mutation, with mu held.
func (e *Engine) retryPending() {
	for mapKey, write := range e.pending {
		if write.tombstone {
			if err := e.store.Delete(context.Background(), write.collection, write.key); err == nil {
				delete(e.pending, mapKey)
			}
			continue
		}

		value, ok := e.currentRecord(write.collection, write.key)
		if !ok {
			// Record vanished since the failed write; nothing left to store.
			delete(e.pending, mapKey)
			continue
		}

		raw, err := json.Marshal(value)
		if err != nil {
			delete(e.pending, mapKey)
			continue
		}
		if err := e.store.Put(context.Background(), write.collection, write.key, raw); err == nil {
			delete(e.pending, mapKey)
		}
	}
}

func (e *Engine) currentRecord(collection, key string) (any, bool) {
	switch collection {
	case store.CollectionSpots:
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, false
		}
		for _, spot := range e.spots {
			if spot.ID == id {
				return spot, true
			}
		}
	case store.CollectionSessions:
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, false
		}
		if session, ok := e.sessions[id]; ok {
			return session, true
		}
	case store.CollectionTransactions:
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, false
		}
		for _, txn := range e.ledger {
			if txn.ID == id {
				return txn, true
			}
		}
	case store.CollectionUsers:
		if user, ok := e.users[key]; ok {
			return user, true
		}
	}
	return nil, false
}

func (e *Engine) findSpot(id int64) (int, *data.Spot) {
	for i, spot := range e.spots {
		if spot.ID == id {
			return i, spot
		}
	}
	return -1, nil
}
