package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/validator"
)

func (app *application) listSpotsHandler(w http.ResponseWriter, r *http.Request) {
	spots := app.engine.Spots()

	err := app.writeJSON(w, http.StatusOK, envelope{"spots": spots}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createSpotHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		data.SpotDraft
		SubmitterLat *float64 `json:"submitter_lat"`
		SubmitterLng *float64 `json:"submitter_lng"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateSpotDraft(v, &input.SpotDraft); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	req := app.contextGetRequester(r)
	req.Lat = input.SubmitterLat
	req.Lng = input.SubmitterLng

	spot, err := app.engine.CreateSpot(&input.SpotDraft, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrInvalidDraft):
			app.failedValidationResponse(w, r, map[string]string{"spot": "must include lat, lng, price and available"})
		case errors.Is(err, data.ErrLocationDenied):
			app.errorResponse(w, r, http.StatusForbidden, "you must be within 100 meters of the spot to register it")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"spot": spot}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showSpotHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	spot, err := app.engine.Spot(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"spot": spot}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateSpotHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var patch data.SpotPatch

	err = app.readJSON(w, r, &patch)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateSpotPatch(v, &patch); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	spot, err := app.engine.UpdateSpot(id, &patch, app.contextGetRequester(r))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, data.ErrInvalidDraft):
			app.failedValidationResponse(w, r, map[string]string{"spot": "contains out-of-range fields"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"spot": spot}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteSpotHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.engine.DeleteSpot(id, app.contextGetRequester(r))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "spot successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// spotQRCodeHandler streams the spot's deep-link QR image.
func (app *application) spotQRCodeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	spot, err := app.engine.Spot(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	png, err := app.qr.PNG(spot.QRCodeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// lookupSpotByCodeHandler resolves a scanned QR token back to its spot.
func (app *application) lookupSpotByCodeHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	code := params.ByName("code")

	spot, err := app.engine.SpotByQRCode(code)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"spot": spot}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) undoHandler(w http.ResponseWriter, r *http.Request) {
	err := app.engine.Undo()
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEmptyHistory):
			app.conflictResponse(w, r, "nothing to undo")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "undo applied"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) redoHandler(w http.ResponseWriter, r *http.Request) {
	err := app.engine.Redo()
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEmptyHistory):
			app.conflictResponse(w, r, "nothing to redo")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "redo applied"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
