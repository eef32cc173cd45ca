package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/store"
)

// ReserveRequest carries one booking attempt.
type ReserveRequest struct {
	SpotID           int64
	UserID           string
	UserName         string
	VehiclePlate     string
	PaymentMethod    string
	PaymentReference string
	DurationHours    int
}

// ReserveResult reports a committed booking.
type ReserveResult struct {
	Available     int           `json:"available"`
	TransactionID int64         `json:"transaction_id"`
	Session       *data.Session `json:"session"`
	NewBalance    *float64      `json:"new_balance,omitempty"`
}

// Reserve runs the booking state machine as one critical section:
// validate, reserve capacity, settle payment, open the session, apply
// loyalty, commit. Every failure before commit rolls the tentative state
// back, with one deliberate exception: an externally captured payment whose
// session cannot be opened is recorded as a reconciliation-required ledger
// entry rather than silently lost.
func (e *Engine) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	now := time.Now()

	// Validating.
	if req.UserID == "" && !e.allowAnonymous {
		return nil, data.ErrAuthenticationRequired
	}
	if req.DurationHours <= 0 {
		req.DurationHours = 1
	}

	_, spot := e.findSpot(req.SpotID)
	if spot == nil {
		return nil, data.ErrRecordNotFound
	}
	if spot.ClosedOn(now) {
		return nil, data.ErrSpotClosed
	}

	var user *data.User
	if req.UserID != "" {
		u, ok := e.users[req.UserID]
		if !ok {
			return nil, fmt.Errorf("user %s: %w", req.UserID, data.ErrRecordNotFound)
		}
		user = u
	}

	// CapacityReserved. The decrement is tentative until commit; all
	// failure paths below must reverse it.
	if spot.Available == 0 {
		return nil, data.ErrSpotFull
	}
	spot.Available--

	// PaymentSettled.
	stl, err := e.settle(ctx, req.PaymentMethod, req.PaymentReference, user, spot.Price)
	if err != nil {
		spot.Available++
		return nil, err
	}

	// SessionOpened.
	session := &data.Session{
		SpotID:       spot.ID,
		UserID:       req.UserID,
		UserName:     req.UserName,
		VehiclePlate: req.VehiclePlate,
		StartTime:    now,
		ExpiryTime:   now.Add(time.Duration(req.DurationHours) * time.Hour),
		Price:        spot.Price,
		PaymentRef:   stl.reference,
	}

	if err := e.openSession(session); err != nil {
		spot.Available++

		if stl.walletFunded {
			e.refundWallet(user, stl.amount)
			return nil, err
		}

		// The gateway has already captured these funds; no rollback is
		// possible. Record the capture for manual reconciliation so it is
		// not silently lost, and block the reference from replay.
		txn := e.appendTransaction(&data.Transaction{
			Type:                   data.TransactionTypeBooking,
			Amount:                 stl.amount,
			SpotID:                 spot.ID,
			SpotName:               spot.Name,
			UserID:                 req.UserID,
			UserName:               req.UserName,
			VehiclePlate:           req.VehiclePlate,
			PaymentRef:             stl.reference,
			Timestamp:              now,
			RequiresReconciliation: true,
		})
		e.persistPut(store.CollectionSpots, spotKey(spot.ID), spot)
		e.logger.PrintError(data.ErrReconciliationRequired, map[string]string{
			"payment_ref":    stl.reference,
			"transaction_id": txnKey(txn.ID),
		})
		return nil, data.ErrReconciliationRequired
	}

	// LoyaltyApplied.
	txn := e.appendTransaction(&data.Transaction{
		Type:         data.TransactionTypeBooking,
		Amount:       stl.amount,
		SpotID:       spot.ID,
		SpotName:     spot.Name,
		UserID:       req.UserID,
		UserName:     req.UserName,
		VehiclePlate: req.VehiclePlate,
		PaymentRef:   stl.reference,
		Timestamp:    now,
	})

	if user != nil {
		earned := 10 + int(math.Floor(spot.Price))
		user.AddPoints(earned, "Booked a spot", spot.Name, txn.ID, now)
		e.persistPut(store.CollectionUsers, user.ID, user)
	}

	// Committed.
	e.persistPut(store.CollectionSpots, spotKey(spot.ID), spot)
	e.persistPut(store.CollectionSessions, spotKey(session.SpotID), session)
	e.notify(EventReservation, ReservationEventPayload{
		SpotID:        spot.ID,
		Available:     spot.Available,
		TransactionID: txn.ID,
	})

	result := &ReserveResult{
		Available:     spot.Available,
		TransactionID: txn.ID,
		Session:       session.Clone(),
	}
	if user != nil {
		balance := user.WalletBalance
		result.NewBalance = &balance
	}
	return result, nil
}

// appendTransaction assigns a time-ordered id, appends the entry to the
// ledger, marks its payment reference as consumed and persists it. Must be
// called with mu held.
func (e *Engine) appendTransaction(txn *data.Transaction) *data.Transaction {
	txn.ID = e.nextTxnID()
	e.ledger = append(e.ledger, txn)
	if txn.PaymentRef != "" {
		e.refs[txn.PaymentRef] = struct{}{}
	}
	e.persistPut(store.CollectionTransactions, txnKey(txn.ID), txn)
	return txn
}

// TopUp verifies a gateway deposit reference and credits the user's wallet.
// In verification-skip mode the claimed amount stands in for the gateway's
// confirmed amount.
func (e *Engine) TopUp(ctx context.Context, userID, reference string, claimedAmount float64) (*data.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	user, ok := e.users[userID]
	if !ok {
		return nil, data.ErrRecordNotFound
	}

	if reference == "" {
		return nil, fmt.Errorf("%w: missing payment reference", data.ErrPaymentFailed)
	}
	if _, used := e.refs[reference]; used {
		e.logger.PrintError(data.ErrDuplicateReference, map[string]string{"payment_ref": reference})
		return nil, data.ErrDuplicateReference
	}

	amount := claimedAmount
	if e.skipVerification {
		e.logger.PrintInfo("gateway verification skipped by configuration", map[string]string{"payment_ref": reference})
	} else {
		if e.gateway == nil {
			return nil, fmt.Errorf("%w: no payment gateway configured", data.ErrPaymentFailed)
		}
		payment, err := e.gateway.Verify(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", data.ErrPaymentFailed, err.Error())
		}
		if payment.Status != "success" {
			return nil, fmt.Errorf("%w: gateway status %q", data.ErrPaymentFailed, payment.Status)
		}
		amount = payment.Amount
	}

	user.WalletBalance += amount
	e.appendTransaction(&data.Transaction{
		Type:       data.TransactionTypeDeposit,
		Amount:     amount,
		UserID:     user.ID,
		UserName:   user.Name,
		PaymentRef: reference,
		Timestamp:  time.Now(),
	})
	e.persistPut(store.CollectionUsers, user.ID, user)

	return user.Clone(), nil
}
