package engine

// Change event types published after committed mutations.
const (
	EventSpotAdded       = "spot_added"
	EventSpotUpdated     = "spot_updated"
	EventSpotDeleted     = "spot_deleted"
	EventReservation     = "reservation"
	EventCancellation    = "cancellation"
	EventUndo            = "undo"
	EventRedo            = "redo"
	EventForceEndSession = "force_end_session"
)

// Event is one logical change notification. Delivery is at-most-once and
// best-effort; publication failure never affects the mutation it describes.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Notifier fans events out to the real-time channel. Implementations must
// swallow and log their own failures.
type Notifier interface {
	Notify(event Event)
}

// SpotEventPayload accompanies spot_added, spot_updated and spot_deleted.
type SpotEventPayload struct {
	SpotID int64 `json:"spot_id"`
}

// ReservationEventPayload accompanies reservation events.
type ReservationEventPayload struct {
	SpotID        int64 `json:"spot_id"`
	Available     int   `json:"available"`
	TransactionID int64 `json:"transaction_id"`
}

// SessionEventPayload accompanies cancellation and force_end_session.
type SessionEventPayload struct {
	SpotID  int64  `json:"spot_id"`
	Message string `json:"message,omitempty"`
}

func (e *Engine) notify(eventType string, payload any) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(Event{Type: eventType, Payload: payload})
}
