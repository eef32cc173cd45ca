package data

import (
	"time"

	"github.com/parkwell-gh/parkwell/internal/validator"
)

// Session records a spot's current occupancy for a booking's duration. At
// most one active session exists per spot at any time; the spot id is the
// session's identity.
type Session struct {
	SpotID       int64     `json:"spot_id"`
	UserID       string    `json:"user_id,omitempty"`
	UserName     string    `json:"user_name"`
	VehiclePlate string    `json:"vehicle_plate"`
	StartTime    time.Time `json:"start_time"`
	ExpiryTime   time.Time `json:"expiry_time"`
	Price        float64   `json:"price"`
	PaymentRef   string    `json:"payment_ref"`
}

func ValidateSession(v *validator.Validator, session *Session) {
	v.Check(session.SpotID > 0, "spot_id", "must be provided")
	v.Check(!session.StartTime.IsZero(), "start_time", "must be provided")
	v.Check(session.ExpiryTime.After(session.StartTime), "expiry_time", "must be after start time")
}

// Expired reports whether the session's paid duration has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiryTime.After(now)
}

func (s *Session) Clone() *Session {
	clone := *s
	return &clone
}
