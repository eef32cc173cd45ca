package data

import "time"

const (
	TransactionTypeDeposit = "deposit"
	TransactionTypeBooking = "booking"
)

// Transaction is one append-only ledger entry. Entries are immutable once
// committed and are never deleted; IDs are time-ordered.
type Transaction struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	SpotID       int64     `json:"spot_id,omitempty"`
	SpotName     string    `json:"spot_name,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	UserName     string    `json:"user_name,omitempty"`
	VehiclePlate string    `json:"vehicle_plate,omitempty"`
	PaymentRef   string    `json:"payment_ref"`
	Timestamp    time.Time `json:"timestamp"`

	// RequiresReconciliation marks an externally captured payment whose
	// booking did not complete. These entries are surfaced to operators,
	// never silently swallowed.
	RequiresReconciliation bool `json:"requires_reconciliation,omitempty"`
}
