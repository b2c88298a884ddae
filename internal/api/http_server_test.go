package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"galli2globe/internal/catalog"
	"galli2globe/internal/config"
	"galli2globe/internal/currency"
	"galli2globe/internal/events"
	"galli2globe/internal/export"
	"galli2globe/internal/models"
	"galli2globe/internal/service"
	"galli2globe/internal/session"
	"galli2globe/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	logger := zerolog.New(io.Discard)

	records := store.NewRecords(store.NewMemoryKV(), &logger)
	sessions := session.NewManager(session.NewMemoryRepository(time.Hour), &logger)
	cat := catalog.New([]models.Destination{
		{ID: "kerala", Name: "Kerala Backwaters", Location: "Kerala, India", Price: 45000, Tags: []string{"wellness"}},
		{ID: "ladakh", Name: "Ladakh Circuit", Location: "Ladakh, India", Price: 62000, Tags: []string{"adventure"}},
	}, &logger)
	table := currency.DefaultTable()
	bus := events.NewEventBus()

	accounts := service.NewAccountService(records, sessions, bus, &logger)
	bookings := service.NewBookingService(records, cat, bus, nil, &logger)
	currencies := service.NewCurrencyService(records, table, &logger)
	exporter := export.NewExcelExporter(t.TempDir(), table, &logger)

	cfg := config.APIConfig{HTTP: config.APIHTTPConfig{Port: 0}}
	return NewHTTPServer(cfg, accounts, bookings, currencies, cat, sessions, exporter, &logger)
}

func doJSON(t *testing.T, srv *HTTPServer, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(sessionTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func signUpToken(t *testing.T, srv *HTTPServer) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", models.SignUpInput{
		Name: "Asha Verma", Email: "asha@example.com", Password: "wanderlust", AcceptedTerms: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func validBookingBody() models.BookingInput {
	return models.BookingInput{
		DestinationID: "kerala",
		TravelMonth:   time.Now().AddDate(0, 2, 0).Format(models.TravelMonthLayout),
		FirstName:     "Asha",
		LastName:      "Verma",
		Email:         "asha@example.com",
		Phone:         "+91 98765 43210",
		Country:       "India",
		GroupSize:     models.GroupSizeDuo,
	}
}

func TestSignUpAndProfile(t *testing.T) {
	srv := newTestServer(t)
	token := signUpToken(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotNil(t, user.Wishlist)
}

func TestSignUpWithoutTerms(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/signup", "", models.SignUpInput{
		Name: "Asha", Email: "asha@example.com", Password: "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogInUnknownEmail(t *testing.T) {
	srv := newTestServer(t)
	signUpToken(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "stranger@example.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogOutRevokesSession(t *testing.T) {
	srv := newTestServer(t)
	token := signUpToken(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/profile", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	srv := newTestServer(t)
	token := signUpToken(t, srv)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/profile", token, models.ProfileUpdate{Country: "India"})
	require.Equal(t, http.StatusOK, rec.Code)

	var user userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "India", user.Country)
}

func TestBookingLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := signUpToken(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/bookings", token, validBookingBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var booking models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Contains(t, booking.ID, "BK")
	assert.Equal(t, "Kerala Backwaters", booking.DestinationName)
	assert.Equal(t, models.StatusConfirmed, booking.Status)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/bookings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Bookings []models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Bookings, 1)

	// Delete before cancel conflicts.
	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/bookings/"+booking.ID, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%s/cancel", booking.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/bookings/"+booking.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/bookings/"+booking.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelUnknownBooking(t *testing.T) {
	srv := newTestServer(t)
	token := signUpToken(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/bookings/BK404/cancel", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingValidationError(t *testing.T) {
	srv := newTestServer(t)
	token := signUpToken(t, srv)

	body := validBookingBody()
	body.TravelMonth = "2020-01"
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/bookings", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDestinationsFilterAndSort(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/destinations?tag=adventure", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Destinations []models.Destination `json:"destinations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Destinations, 1)
	assert.Equal(t, "ladakh", listing.Destinations[0].ID)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/destinations?sort=price-high", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Destinations, 2)
	assert.Equal(t, "ladakh", listing.Destinations[0].ID)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/destinations?max_price=50000", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Destinations, 1)
	assert.Equal(t, "kerala", listing.Destinations[0].ID)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/destinations?max_price=cheap", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrencyEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/currency", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Selected string   `json:"selected"`
		Codes    []string `json:"codes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INR", body.Selected)
	assert.Contains(t, body.Codes, "USD")

	rec = doJSON(t, srv, http.MethodPut, "/api/v1/currency", "", map[string]string{"code": "USD"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/currency", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USD", body.Selected)

	rec = doJSON(t, srv, http.MethodPut, "/api/v1/currency", "", map[string]string{"code": "JPY"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := signUpToken(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/bookings", token, validBookingBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/bookings/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.RateLimit = config.APIRateLimitConfig{RPS: 1, Burst: 2}
	srv.limiter = newRateLimiter(srv.cfg.RateLimit)

	var tooMany bool
	for i := 0; i < 5; i++ {
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/currency", "", nil)
		if rec.Code == http.StatusTooManyRequests {
			tooMany = true
		}
	}
	assert.True(t, tooMany, "expected a 429 after burst is spent")
}

func TestUnknownBodyFieldRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "a@b.c", "password": "x", "extra": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDEcho(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/currency", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
}
