package main

import (
	"context"
	"net/http"

	"github.com/parkwell-gh/parkwell/internal/engine"
)

type contextKey string

const requesterContextKey = contextKey("requester")

func (app *application) contextSetRequester(r *http.Request, req engine.Requester) *http.Request {
	ctx := context.WithValue(r.Context(), requesterContextKey, req)
	return r.WithContext(ctx)
}

func (app *application) contextGetRequester(r *http.Request) engine.Requester {
	req, ok := r.Context().Value(requesterContextKey).(engine.Requester)
	if !ok {
		return engine.Requester{}
	}
	return req
}
