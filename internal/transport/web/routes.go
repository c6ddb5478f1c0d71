package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/avstrong/hotelier/internal/hotel"
)

const dateLayout = "2006-01-02"

type reserveRequest struct {
	GuestID    string `json:"guest_id"`
	RoomNumber string `json:"room_number"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

type cancelResponse struct {
	Cancelled bool         `json:"cancelled"`
	Status    hotel.Status `json:"status"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.l.LogErrorf("Could not encode response body: %v", err.Error())
	}
}

// writeDomainError maps the manager's error taxonomy onto HTTP statuses.
// It reports whether err was handled.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	if inputErr := hotel.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

		return true
	}

	if conflictErr := hotel.IsConflictError(err); conflictErr != nil {
		s.writeJSON(w, http.StatusPreconditionFailed, conflictErr.Fields())

		return true
	}

	switch {
	case errors.Is(err, hotel.ErrPaymentDeclined):
		http.Error(w, "payment declined", http.StatusPaymentRequired)
	case errors.Is(err, hotel.ErrRoomNotFound),
		errors.Is(err, hotel.ErrBookingNotFound),
		errors.Is(err, hotel.ErrGuestNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, hotel.ErrDuplicateUsername):
		http.Error(w, "username already registered", http.StatusConflict)
	case errors.Is(err, hotel.ErrInvalidCredentials):
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
	default:
		s.l.LogErrorf("Unhandled error: %v", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}

	return true
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}

	return d, nil
}

func (s *Server) registerGuestHandler(w http.ResponseWriter, r *http.Request) {
	var input hotel.RegisterInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	guest, err := s.hotel.RegisterGuest(r.Context(), &input)
	if s.writeDomainError(w, err) {
		return
	}

	s.writeJSON(w, http.StatusCreated, guest)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input hotel.LoginInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	guest, err := s.hotel.Login(r.Context(), &input)
	if s.writeDomainError(w, err) {
		return
	}

	s.writeJSON(w, http.StatusOK, guest)
}

func (s *Server) searchRoomsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	checkIn, err := parseDate(query.Get("check_in"))
	if err != nil {
		http.Error(w, "check_in must be a YYYY-MM-DD date", http.StatusBadRequest)

		return
	}

	checkOut, err := parseDate(query.Get("check_out"))
	if err != nil {
		http.Error(w, "check_out must be a YYYY-MM-DD date", http.StatusBadRequest)

		return
	}

	input := hotel.SearchInput{
		Category: query.Get("category"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}

	rooms, err := s.hotel.SearchRooms(r.Context(), &input)
	if s.writeDomainError(w, err) {
		return
	}

	views := make([]hotel.RoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, room.View())
	}

	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) createReservationHandler(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		http.Error(w, "check_in must be a YYYY-MM-DD date", http.StatusBadRequest)

		return
	}

	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		http.Error(w, "check_out must be a YYYY-MM-DD date", http.StatusBadRequest)

		return
	}

	input := hotel.ReserveInput{
		GuestID:    req.GuestID,
		RoomNumber: req.RoomNumber,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}

	reservation, err := s.hotel.Reserve(r.Context(), &input)
	if s.writeDomainError(w, err) {
		return
	}

	s.writeJSON(w, http.StatusCreated, reservation)
}

func (s *Server) bookingDetailsHandler(w http.ResponseWriter, r *http.Request) {
	reservation, err := s.hotel.Booking(r.Context(), mux.Vars(r)["id"])
	if s.writeDomainError(w, err) {
		return
	}

	s.writeJSON(w, http.StatusOK, reservation)
}

func (s *Server) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	changed, err := s.hotel.Cancel(r.Context(), id)
	if s.writeDomainError(w, err) {
		return
	}

	s.writeJSON(w, http.StatusOK, cancelResponse{
		Cancelled: changed,
		Status:    hotel.StatusCancelled,
	})
}

func (s *Server) guestBookingsHandler(w http.ResponseWriter, r *http.Request) {
	reservations, err := s.hotel.GuestBookings(r.Context(), mux.Vars(r)["id"])
	if s.writeDomainError(w, err) {
		return
	}

	if reservations == nil {
		reservations = []*hotel.Reservation{}
	}

	s.writeJSON(w, http.StatusOK, reservations)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *mux.Router) {
	r.Use(s.loggerMiddleware(), s.recoverMiddleware())

	r.HandleFunc("/api/guests/v1", s.registerGuestHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/v1", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/v1", s.searchRoomsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/reservations/v1", s.createReservationHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/reservations/v1/{id}", s.bookingDetailsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/reservations/v1/{id}", s.cancelBookingHandler).Methods(http.MethodDelete)
	r.HandleFunc("/api/guests/v1/{id}/reservations", s.guestBookingsHandler).Methods(http.MethodGet)
	r.HandleFunc(s.conf.LivenessEndpoint, s.livenessHandler).Methods(http.MethodGet)
}
