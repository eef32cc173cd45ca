package main

import (
	"errors"
	"net/http"

	"github.com/parkwell-gh/parkwell/internal/data"
)

func (app *application) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions := app.engine.ActiveSessions()

	err := app.writeJSON(w, http.StatusOK, envelope{"sessions": sessions}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) forceEndSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.engine.ForceEndSession(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "session ended"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
