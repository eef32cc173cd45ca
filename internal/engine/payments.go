package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/parkwell-gh/parkwell/internal/data"
)

// Recognized payment methods.
const (
	PaymentMethodWallet  = "wallet"
	PaymentMethodGateway = "paystack"
)

// WalletRefPrefix tags internally synthesized references so wallet-funded
// ledger entries are distinguishable from gateway captures.
const WalletRefPrefix = "wallet-"

// settlement is the outcome of resolving a booking's payment leg.
type settlement struct {
	reference    string
	amount       float64
	walletFunded bool
}

// settle resolves payment for a booking attempt. For the wallet path the
// debit happens here, atomically with the booking decision that the caller
// holds the lock for. For the external path only the gateway-confirmed
// amount is trusted; the client-asserted price is ignored for accounting.
// Must be called with mu held.
func (e *Engine) settle(ctx context.Context, method, reference string, user *data.User, price float64) (*settlement, error) {
	switch method {
	case PaymentMethodWallet:
		if user == nil {
			return nil, fmt.Errorf("wallet payment without a user: %w", data.ErrAuthenticationRequired)
		}
		if user.WalletBalance < price {
			return nil, data.ErrInsufficientFunds
		}
		user.WalletBalance -= price
		return &settlement{
			reference:    WalletRefPrefix + uuid.NewString(),
			amount:       price,
			walletFunded: true,
		}, nil

	case PaymentMethodGateway:
		if reference == "" {
			return nil, fmt.Errorf("%w: missing payment reference", data.ErrPaymentFailed)
		}

		// Replay check runs before any gateway traffic: a reused reference
		// is rejected outright and logged as a possible attack.
		if _, used := e.refs[reference]; used {
			e.logger.PrintError(data.ErrDuplicateReference, map[string]string{"payment_ref": reference})
			return nil, data.ErrDuplicateReference
		}

		if e.skipVerification {
			e.logger.PrintInfo("gateway verification skipped by configuration", map[string]string{"payment_ref": reference})
			return &settlement{reference: reference, amount: price}, nil
		}

		if e.gateway == nil {
			return nil, fmt.Errorf("%w: no payment gateway configured", data.ErrPaymentFailed)
		}

		payment, err := e.gateway.Verify(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", data.ErrPaymentFailed, err.Error())
		}
		if !strings.EqualFold(payment.Status, "success") {
			return nil, fmt.Errorf("%w: gateway status %q", data.ErrPaymentFailed, payment.Status)
		}

		return &settlement{reference: reference, amount: payment.Amount}, nil

	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", data.ErrPaymentFailed, method)
	}
}

// refundWallet reverses a wallet debit when a later booking step fails.
// Must be called with mu held.
func (e *Engine) refundWallet(user *data.User, amount float64) {
	if user != nil {
		user.WalletBalance += amount
	}
}
