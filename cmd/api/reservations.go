package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/engine"
)

func (app *application) reserveSpotHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		UserID           string `json:"user_id"`
		UserName         string `json:"user_name"`
		VehiclePlate     string `json:"vehicle_plate"`
		PaymentMethod    string `json:"payment_method"`
		PaymentReference string `json:"payment_reference"`
		DurationHours    int    `json:"duration_hours"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userID := input.UserID
	if userID == "" {
		userID = app.contextGetRequester(r).UserID
	}

	result, err := app.engine.Reserve(r.Context(), engine.ReserveRequest{
		SpotID:           id,
		UserID:           userID,
		UserName:         input.UserName,
		VehiclePlate:     input.VehiclePlate,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		DurationHours:    input.DurationHours,
	})
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, data.ErrAuthenticationRequired):
			app.authenticationRequiredResponse(w, r)
		case errors.Is(err, data.ErrSpotFull):
			app.conflictResponse(w, r, "this spot is fully booked")
		case errors.Is(err, data.ErrSpotClosed):
			app.conflictResponse(w, r, "this spot is closed on the requested date")
		case errors.Is(err, data.ErrSessionExists):
			app.conflictResponse(w, r, "an active session already exists for this spot")
		case errors.Is(err, data.ErrDuplicateReference):
			app.conflictResponse(w, r, "this payment reference has already been used")
		case errors.Is(err, data.ErrInsufficientFunds):
			app.paymentRequiredResponse(w, r, "insufficient wallet balance")
		case errors.Is(err, data.ErrPaymentFailed):
			app.paymentRequiredResponse(w, r, "payment could not be verified")
		case errors.Is(err, data.ErrReconciliationRequired):
			app.conflictResponse(w, r, "payment captured but booking failed, contact support for reconciliation")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.sendReceiptEmail(userID, result)

	err = app.writeJSON(w, http.StatusCreated, envelope{"booking": result}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sendReceiptEmail delivers the booking receipt off the request path. Users
// without a registered email address simply never get one.
func (app *application) sendReceiptEmail(userID string, result *engine.ReserveResult) {
	if userID == "" || app.config.smtp.host == "" {
		return
	}

	user, err := app.engine.User(userID)
	if err != nil || user.Email == "" {
		return
	}

	session := result.Session
	txnID := result.TransactionID

	spotName := fmt.Sprintf("spot %d", session.SpotID)
	if spot, err := app.engine.Spot(session.SpotID); err == nil && spot.Name != "" {
		spotName = spot.Name
	}

	app.background(func() {
		emailData := map[string]any{
			"userName":      user.Name,
			"spotName":      spotName,
			"vehiclePlate":  session.VehiclePlate,
			"amount":        fmt.Sprintf("%.2f", session.Price),
			"transactionID": txnID,
			"expiresAt":     session.ExpiryTime.Format("2006-01-02 15:04 MST"),
		}
		err := app.mailer.Send(user.Email, "booking_receipt", emailData)
		if err != nil {
			app.logger.PrintError(err, map[string]string{"email": user.Email})
		}
	})
}

func (app *application) cancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.engine.Cancel(id, app.contextGetRequester(r))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, data.ErrNotPermitted):
			app.notPermittedResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "reservation cancelled"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
