package engine

import (
	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/store"
)

// HistoryDepth bounds the undo stack; the oldest snapshot is discarded on
// overflow.
const HistoryDepth = 20

type spotSnapshot []*data.Spot

// snapshotSpots deep-copies the live spot collection, preserving insertion
// order. Must be called with mu held.
func (e *Engine) snapshotSpots() spotSnapshot {
	snap := make(spotSnapshot, len(e.spots))
	for i, spot := range e.spots {
		snap[i] = spot.Clone()
	}
	return snap
}

// pushUndo records the pre-mutation state ahead of an admin-initiated
// registry mutation and invalidates the redo stack. Runs inside the same
// critical section as the mutation it guards. Must be called with mu held.
func (e *Engine) pushUndo() {
	if len(e.undo) == HistoryDepth {
		e.undo = e.undo[1:]
	}
	e.undo = append(e.undo, e.snapshotSpots())
	e.redo = nil
}

// Undo restores the most recent pre-mutation snapshot, moving the current
// state onto the redo stack. The restoration itself never pushes onto the
// undo stack.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	if len(e.undo) == 0 {
		return data.ErrEmptyHistory
	}

	e.redo = append(e.redo, e.snapshotSpots())

	target := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	e.restoreSpots(target)
	e.notify(EventUndo, nil)

	return nil
}

// Redo is the symmetric inverse of Undo.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	if len(e.redo) == 0 {
		return data.ErrEmptyHistory
	}

	e.undo = append(e.undo, e.snapshotSpots())
	if len(e.undo) > HistoryDepth {
		e.undo = e.undo[1:]
	}

	target := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	e.restoreSpots(target)
	e.notify(EventRedo, nil)

	return nil
}

// restoreSpots reconciles a snapshot against the live collection by id
// rather than blindly overwriting: snapshot-only entries are re-created,
// common entries are overwritten field for field, and live-only entries are
// deleted (cascading to their sessions). The id-based diff keeps the record
// store's row identity stable across restores. Must be called with mu held.
func (e *Engine) restoreSpots(target spotSnapshot) {
	live := make(map[int64]struct{}, len(e.spots))
	for _, spot := range e.spots {
		live[spot.ID] = struct{}{}
	}

	restored := make([]*data.Spot, len(target))
	inTarget := make(map[int64]struct{}, len(target))
	for i, spot := range target {
		restored[i] = spot.Clone()
		inTarget[spot.ID] = struct{}{}
		// Covers both re-created and overwritten entries.
		e.persistPut(store.CollectionSpots, spotKey(spot.ID), restored[i])
	}

	for id := range live {
		if _, keep := inTarget[id]; !keep {
			e.removeSession(id)
			e.persistDelete(store.CollectionSpots, spotKey(id))
		}
	}

	e.spots = restored
}

// HistoryDepths reports the current undo and redo stack sizes.
func (e *Engine) HistoryDepths() (undo, redo int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.undo), len(e.redo)
}
