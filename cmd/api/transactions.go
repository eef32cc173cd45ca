package main

import (
	"errors"
	"net/http"

	"github.com/parkwell-gh/parkwell/internal/data"
)

func (app *application) showTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	txn, err := app.engine.Transaction(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"transaction": txn}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	txns := app.engine.Transactions()

	err := app.writeJSON(w, http.StatusOK, envelope{"transactions": txns}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	stats := app.engine.Stats()

	err := app.writeJSON(w, http.StatusOK, envelope{"analytics": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
