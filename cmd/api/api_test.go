package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/engine"
	"github.com/parkwell-gh/parkwell/internal/jsonlog"
	"github.com/parkwell-gh/parkwell/internal/qrcode"
	"github.com/parkwell-gh/parkwell/internal/store"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	var cfg config
	cfg.env = "testing"
	cfg.baseURL = "http://localhost:4000"
	cfg.admin.username = "admin"
	cfg.admin.passwordHash = string(hash)
	cfg.limiter.enabled = false
	cfg.paystack.skipVerify = true

	eng := engine.New(engine.Config{
		Store:            fileStore,
		Logger:           logger,
		SkipVerification: true,
	})

	return &application{
		config: cfg,
		logger: logger,
		engine: eng,
		qr:     qrcode.NewGenerator(cfg.baseURL),
	}
}

func (app *application) addTestSpot(t *testing.T, available int) *data.Spot {
	t.Helper()

	lat, lng, price := 6.9271, 79.8612, 10.0
	spot, err := app.engine.CreateSpot(&data.SpotDraft{
		Name: "Fort", Lat: &lat, Lng: &lng, Price: &price, Available: &available,
	}, engine.Requester{Admin: true})
	require.NoError(t, err)
	return spot
}

func TestHealthcheck(t *testing.T) {
	app := newTestApplication(t)
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "available", body.Status)
}

func TestReserveEndpointStatusCodes(t *testing.T) {
	app := newTestApplication(t)
	spot := app.addTestSpot(t, 1)

	user, err := app.engine.CreateUser("Amal", "")
	require.NoError(t, err)

	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	reserve := func(spotID int64, payload map[string]any) *http.Response {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		resp, err := http.Post(srv.URL+"/v1/spots/"+strconv.FormatInt(spotID, 10)+"/reserve", "application/json", bytes.NewReader(raw))
		require.NoError(t, err)
		return resp
	}

	// Wallet with no funds.
	resp := reserve(spot.ID, map[string]any{
		"user_id":        user.ID,
		"payment_method": "wallet",
	})
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	resp.Body.Close()

	// Verified external reference succeeds in skip mode.
	resp = reserve(spot.ID, map[string]any{
		"user_id":           user.ID,
		"payment_method":    "paystack",
		"payment_reference": "ref-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Capacity is now exhausted.
	resp = reserve(spot.ID, map[string]any{
		"user_id":           user.ID,
		"payment_method":    "paystack",
		"payment_reference": "ref-2",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Unknown spot.
	resp = reserve(9999, map[string]any{
		"user_id":           user.ID,
		"payment_method":    "paystack",
		"payment_reference": "ref-3",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminEndpointsRequireCredentials(t *testing.T) {
	app := newTestApplication(t)
	spot := app.addTestSpot(t, 1)

	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/spots/"+strconv.FormatInt(spot.ID, 10), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	req.SetBasicAuth("admin", "letmein")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	_, err = app.engine.Spot(spot.ID)
	require.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestSpotQRCodeEndpoint(t *testing.T) {
	app := newTestApplication(t)
	spot := app.addTestSpot(t, 1)

	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/spots/" + strconv.FormatInt(spot.ID, 10) + "/qrcode")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	png, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, png)
}
