package data

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("edit conflict")

	// ErrLocationDenied is returned when a non-privileged submitter's claimed
	// position is missing or too far from the spot being registered.
	ErrLocationDenied = errors.New("submitter location missing or too far from spot")

	// ErrSpotFull is returned when a booking finds no free capacity at
	// commit time.
	ErrSpotFull = errors.New("spot has no available capacity")

	// ErrSpotClosed is returned when a booking hits one of the spot's
	// schedule exceptions.
	ErrSpotClosed = errors.New("spot is closed on the requested date")

	// ErrSessionExists is returned when a spot already has an active
	// occupancy session.
	ErrSessionExists = errors.New("an active session already exists for this spot")

	// ErrDuplicateReference is returned when a payment reference is already
	// present in the transaction ledger. Never retried with the same
	// reference; logged as a possible replay attack.
	ErrDuplicateReference = errors.New("payment reference already used")

	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrInvalidDraft is returned when required numeric fields are missing
	// from a spot submission that bypassed handler validation.
	ErrInvalidDraft = errors.New("spot draft is missing required fields")

	// ErrAuthenticationRequired is returned for reservations without a user
	// identity when anonymous booking is disabled.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrPaymentFailed is returned when the gateway rejects or times out on
	// a reference. Retryable by the caller with a fresh reference.
	ErrPaymentFailed = errors.New("payment verification failed")

	ErrEmptyHistory = errors.New("history stack is empty")

	// ErrNotPermitted is returned when a caller's role flag does not allow
	// the operation, such as cancelling another user's session.
	ErrNotPermitted = errors.New("operation not permitted for this requester")

	// ErrReconciliationRequired flags a booking whose external payment was
	// captured but whose session could not be opened. Funds are recorded in
	// the ledger for manual reconciliation rather than silently lost.
	ErrReconciliationRequired = errors.New("payment captured but booking not completed; flagged for reconciliation")
)
