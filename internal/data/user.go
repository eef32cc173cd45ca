package data

import (
	"slices"
	"time"

	"github.com/parkwell-gh/parkwell/internal/validator"
)

const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// User holds a wallet balance and the loyalty state derived from it. Tier
// is a pure function of Points and is recomputed on every points change; it
// is stored only so read paths and the record store see a consistent value.
type User struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email,omitempty"`
	WalletBalance float64        `json:"wallet_balance"`
	Points        int            `json:"points"`
	Tier          string         `json:"tier"`
	History       []HistoryEntry `json:"history,omitempty"`
}

// HistoryEntry is one append-only loyalty event linked to a ledger entry.
type HistoryEntry struct {
	Action        string    `json:"action"`
	Spot          string    `json:"spot,omitempty"`
	Points        int       `json:"points"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// TierForPoints maps accumulated points to a loyalty tier.
func TierForPoints(points int) string {
	switch {
	case points >= 1000:
		return TierPlatinum
	case points >= 500:
		return TierGold
	case points >= 200:
		return TierSilver
	default:
		return TierBronze
	}
}

// AddPoints accrues loyalty value, recomputes the tier and appends a
// history entry in one step so the tier can never go stale.
func (u *User) AddPoints(points int, action, spot string, txnID int64, now time.Time) {
	u.Points += points
	u.Tier = TierForPoints(u.Points)
	u.History = append(u.History, HistoryEntry{
		Action:        action,
		Spot:          spot,
		Points:        points,
		TransactionID: txnID,
		Timestamp:     now,
	})
}

func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Name != "", "name", "must be provided")
	v.Check(len(user.Name) <= 100, "name", "must not be more than 100 characters long")

	if user.Email != "" {
		v.Check(validator.Matches(user.Email, validator.EmailRX), "email", "must be a valid email address")
	}
}

func (u *User) Clone() *User {
	clone := *u
	clone.History = slices.Clone(u.History)
	return &clone
}
