package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/hotelier/internal/hotel"
	"github.com/avstrong/hotelier/internal/idgen/uuidgen"
	"github.com/avstrong/hotelier/internal/logger"
	"github.com/avstrong/hotelier/internal/migration"
	"github.com/avstrong/hotelier/internal/payment/simulated"
	"github.com/avstrong/hotelier/internal/storage/memory"
	"github.com/avstrong/hotelier/internal/transport/web"
)

type testServer struct {
	srv     *web.Server
	storage *memory.DB
	guestID string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx := context.Background()
	l := logger.New(log.New(io.Discard, "", 0))
	db := memory.New(memory.Config{L: l})
	idGen := uuidgen.New()

	require.NoError(t, migration.Up(ctx, l, db, idGen))

	gateway := simulated.New(simulated.Config{L: l}) //nolint:exhaustruct
	manager := hotel.New(l, db, idGen, gateway)

	conf := web.Conf{
		L:                 l,
		ServerLogger:      log.New(io.Discard, "", 0),
		Host:              "localhost",
		Port:              "0",
		ReadHeaderTimeout: 20,
		LivenessEndpoint:  "/liveness",
	}

	srv, err := web.New(ctx, conf, manager)
	require.NoError(t, err)

	guest, err := db.GuestByUsername(ctx, "user1")
	require.NoError(t, err)

	return &testServer{srv: srv, storage: db, guestID: guest.ID}
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()

	ts.srv.Router().ServeHTTP(rec, req)

	return rec
}

func (ts *testServer) reserveBody(roomNumber, checkIn, checkOut string) string {
	return fmt.Sprintf(
		`{"guest_id":%q,"room_number":%q,"check_in":%q,"check_out":%q}`,
		ts.guestID, roomNumber, checkIn, checkOut,
	)
}

func TestSearchRooms(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/rooms/v1?category=STANDARD&check_in=2024-06-01&check_out=2024-06-04", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []hotel.RoomView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 2)
	assert.Equal(t, "101", views[0].Number)
	assert.Equal(t, "Standard Room", views[0].CategoryName)
	assert.InDelta(t, 100.00, views[0].PricePerNight, 0)
}

func TestSearchRooms_BadDate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/rooms/v1?category=STANDARD&check_in=June-1&check_out=2024-06-04", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservationLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/reservations/v1", ts.reserveBody("101", "2024-06-01", "2024-06-04"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var reservation hotel.Reservation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reservation))
	assert.Equal(t, hotel.StatusConfirmed, reservation.Status)
	assert.InDelta(t, 300.00, reservation.Total, 0)

	// Overlapping range on the same room.
	rec = ts.do(t, http.MethodPost, "/api/reservations/v1", ts.reserveBody("101", "2024-06-02", "2024-06-05"))
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/reservations/v1/"+reservation.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/reservations/v1/"+reservation.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cancelled":true,"status":"CANCELLED"}`, rec.Body.String())

	// Second cancel reports no state change.
	rec = ts.do(t, http.MethodDelete, "/api/reservations/v1/"+reservation.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cancelled":false,"status":"CANCELLED"}`, rec.Body.String())

	// The freed range can be booked again.
	rec = ts.do(t, http.MethodPost, "/api/reservations/v1", ts.reserveBody("101", "2024-06-02", "2024-06-05"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReservation_Validation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/reservations/v1", ts.reserveBody("101", "2024-06-04", "2024-06-01"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/reservations/v1", ts.reserveBody("999", "2024-06-01", "2024-06-04"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/reservations/v1", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingDetails_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/reservations/v1/no-such-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuests_RegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/guests/v1", `{"username":"user3","password":"pass3"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var guest hotel.Guest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&guest))
	assert.NotEmpty(t, guest.ID)

	rec = ts.do(t, http.MethodPost, "/api/guests/v1", `{"username":"user3","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/sessions/v1", `{"username":"user3","password":"pass3"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/sessions/v1", `{"username":"user3","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuestBookings(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/reservations/v1", ts.reserveBody("201", "2024-06-01", "2024-06-04"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/guests/v1/"+ts.guestID+"/reservations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reservations []*hotel.Reservation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reservations))
	assert.Len(t, reservations, 1)

	rec = ts.do(t, http.MethodGet, "/api/guests/v1/other-guest/reservations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLiveness(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/liveness", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
