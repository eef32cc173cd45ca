package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/spots", app.listSpotsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/spots", app.createSpotHandler)
	router.HandlerFunc(http.MethodGet, "/v1/spots/:id", app.showSpotHandler)
	router.HandlerFunc(http.MethodPut, "/v1/spots/:id", app.updateSpotHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/spots/:id", app.requireAdmin(app.deleteSpotHandler))
	router.HandlerFunc(http.MethodGet, "/v1/spots/:id/qrcode", app.spotQRCodeHandler)
	router.HandlerFunc(http.MethodGet, "/v1/spot-codes/:code", app.lookupSpotByCodeHandler)

	router.HandlerFunc(http.MethodPost, "/v1/spots/:id/reserve", app.reserveSpotHandler)
	router.HandlerFunc(http.MethodPost, "/v1/spots/:id/cancel", app.cancelReservationHandler)

	router.HandlerFunc(http.MethodGet, "/v1/sessions", app.requireAdmin(app.listSessionsHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/sessions/:id", app.requireAdmin(app.forceEndSessionHandler))

	router.HandlerFunc(http.MethodPost, "/v1/admin/undo", app.requireAdmin(app.undoHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/redo", app.requireAdmin(app.redoHandler))

	router.HandlerFunc(http.MethodPost, "/v1/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/:id", app.showUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/:id/topup", app.topUpWalletHandler)

	router.HandlerFunc(http.MethodGet, "/v1/transactions", app.requireAdmin(app.listTransactionsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/transactions/:id", app.showTransactionHandler)
	router.HandlerFunc(http.MethodGet, "/v1/analytics", app.requireAdmin(app.showAnalyticsHandler))

	return app.recoverPanic(app.enableCORS(app.rateLimit(app.authenticate(router))))
}
