package engine

import (
	"sort"
	"time"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/store"
)

// openSession enforces the at-most-one-session-per-spot invariant. Must be
// called with mu held; the caller persists.
func (e *Engine) openSession(session *data.Session) error {
	if _, exists := e.sessions[session.SpotID]; exists {
		return data.ErrSessionExists
	}
	e.sessions[session.SpotID] = session
	return nil
}

// removeSession closes a session idempotently and returns the removed
// session, or nil if none was active. Must be called with mu held.
func (e *Engine) removeSession(spotID int64) *data.Session {
	session, ok := e.sessions[spotID]
	if !ok {
		return nil
	}
	delete(e.sessions, spotID)
	e.persistDelete(store.CollectionSessions, spotKey(spotID))
	return session
}

// restoreCapacity returns one unit of capacity to a spot after its session
// ends. The spot may legitimately be gone (cascade delete); that is not an
// error. Must be called with mu held.
func (e *Engine) restoreCapacity(spotID int64) {
	_, spot := e.findSpot(spotID)
	if spot == nil {
		return
	}
	spot.Available++
	e.persistPut(store.CollectionSpots, spotKey(spot.ID), spot)
}

// Cancel ends the active session for a spot, restoring its capacity. A
// non-admin requester can only cancel a session it owns.
func (e *Engine) Cancel(spotID int64, req Requester) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	session, ok := e.sessions[spotID]
	if !ok {
		return data.ErrRecordNotFound
	}

	if !req.Admin && session.UserID != "" && session.UserID != req.UserID {
		return data.ErrNotPermitted
	}

	e.removeSession(spotID)
	e.restoreCapacity(spotID)
	e.notify(EventCancellation, SessionEventPayload{SpotID: spotID})

	return nil
}

// ForceEndSession is the administrative session kill. The parked client is
// told over the fan-out channel that its session is gone.
func (e *Engine) ForceEndSession(spotID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	if _, ok := e.sessions[spotID]; !ok {
		return data.ErrRecordNotFound
	}

	e.removeSession(spotID)
	e.restoreCapacity(spotID)
	e.notify(EventForceEndSession, SessionEventPayload{
		SpotID:  spotID,
		Message: "Your session has been ended by an administrator.",
	})

	return nil
}

// SweepExpiredSessions removes every session whose paid duration has
// elapsed, restoring capacity for each. It returns the removed sessions so
// the scheduler can log them. The tracker itself stays synchronous; an
// external ticker decides when to sweep.
func (e *Engine) SweepExpiredSessions(now time.Time) []*data.Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	var expired []*data.Session
	for spotID, session := range e.sessions {
		if session.Expired(now) {
			expired = append(expired, session.Clone())
			e.removeSession(spotID)
			e.restoreCapacity(spotID)
			e.notify(EventCancellation, SessionEventPayload{SpotID: spotID, Message: "session expired"})
		}
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].SpotID < expired[j].SpotID })
	return expired
}

// ActiveSessions returns deep copies of all active sessions, ordered by
// spot id.
func (e *Engine) ActiveSessions() []*data.Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions := make([]*data.Session, 0, len(e.sessions))
	for _, session := range e.sessions {
		sessions = append(sessions, session.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].SpotID < sessions[j].SpotID })
	return sessions
}

// Session returns the active session for a spot, if any.
func (e *Engine) Session(spotID int64) (*data.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[spotID]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return session.Clone(), nil
}
