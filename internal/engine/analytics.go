package engine

import (
	"github.com/parkwell-gh/parkwell/internal/data"
)

// Analytics is a snapshot of ledger-derived figures for the admin dashboard.
// Revenue counts booking settlements only; deposits move money into wallets
// without earning anything.
type Analytics struct {
	TotalRevenue  float64             `json:"total_revenue"`
	TotalBookings int                 `json:"total_bookings"`
	ActiveSpots   int                 `json:"active_spots"`
	OpenSessions  int                 `json:"open_sessions"`
	Recent        []*data.Transaction `json:"recent_transactions"`
}

// Stats computes dashboard analytics from the committed ledger.
func (e *Engine) Stats() Analytics {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stats Analytics
	stats.ActiveSpots = len(e.spots)
	stats.OpenSessions = len(e.sessions)

	for _, txn := range e.ledger {
		if txn.Type == data.TransactionTypeBooking {
			stats.TotalRevenue += txn.Amount
			stats.TotalBookings++
		}
	}

	// Most recent first, capped at ten.
	n := len(e.ledger)
	limit := 10
	if n < limit {
		limit = n
	}
	stats.Recent = make([]*data.Transaction, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		clone := *e.ledger[i]
		stats.Recent = append(stats.Recent, &clone)
	}

	return stats
}

// Transactions returns the full ledger, oldest first.
func (e *Engine) Transactions() []*data.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*data.Transaction, len(e.ledger))
	for i, txn := range e.ledger {
		clone := *txn
		out[i] = &clone
	}
	return out
}

// Transaction looks up one ledger entry by id.
func (e *Engine) Transaction(id int64) (*data.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, txn := range e.ledger {
		if txn.ID == id {
			clone := *txn
			return &clone, nil
		}
	}
	return nil, data.ErrRecordNotFound
}
