package hotel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avstrong/hotelier/internal/logger"
)

const paymentTimeout = 10 * time.Second

type idGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// paymentGateway is the external payment collaborator. One synchronous call
// per reservation attempt; it never touches room state.
type paymentGateway interface {
	Charge(ctx context.Context, amount float64) error
}

type storageReader interface {
	Room(ctx context.Context, number string) (*Room, error)
	Rooms(ctx context.Context) ([]*Room, error)
	Reservation(ctx context.Context, id string) (*Reservation, error)
	ReservationsByGuest(ctx context.Context, guestID string) ([]*Reservation, error)
	GuestByUsername(ctx context.Context, username string) (*Guest, error)
}

type storageWriter interface {
	SaveRoom(ctx context.Context, room *Room) error
	SaveReservation(ctx context.Context, reservation *Reservation) error
	SaveGuest(ctx context.Context, guest *Guest) error
}

// Storage is the full persistence seam; implementations live in
// internal/storage.
type Storage interface {
	storageReader
	storageWriter
}

// Manager orchestrates search, reservation and cancellation over the room
// inventory. It owns no state of its own; rooms, guests and reservations live
// behind the storage seam.
type Manager struct {
	l           *logger.Logger
	storage     Storage
	idGenerator idGenerator
	gateway     paymentGateway
}

func New(l *logger.Logger, storage Storage, idGenerator idGenerator, gateway paymentGateway) *Manager {
	return &Manager{
		l:           l,
		storage:     storage,
		idGenerator: idGenerator,
		gateway:     gateway,
	}
}

func truncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour) //nolint:gomnd
}

func (s *SearchInput) validate() error {
	inputErr := newInputError()

	if _, ok := ParseCategory(s.Category); !ok {
		inputErr.addError("category", "provide one of STANDARD, DELUXE, SUITE")
	}

	if !s.CheckOut.After(s.CheckIn) {
		inputErr.addError("check_out", "check_out must be after check_in")
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}

func (r *ReserveInput) validate() error {
	inputErr := newInputError()

	if r.GuestID == "" {
		inputErr.addError("guest_id", "provide guest_id")
	}

	if r.RoomNumber == "" {
		inputErr.addError("room_number", "provide room_number")
	}

	if !r.CheckOut.After(r.CheckIn) {
		inputErr.addError("check_out", "check_out must be after check_in")
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}

func (r *RegisterInput) validate() error {
	inputErr := newInputError()

	if r.Username == "" {
		inputErr.addError("username", "provide username")
	}

	if r.Password == "" {
		inputErr.addError("password", "provide password")
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}

// SearchRooms returns the rooms of the requested category that are free for
// every night of the range, in inventory order. The result is a snapshot, not
// a live view; Reserve re-checks under the room lock anyway.
func (m *Manager) SearchRooms(ctx context.Context, input *SearchInput) ([]*Room, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	category, _ := ParseCategory(input.Category)
	checkIn := truncateToDay(input.CheckIn)
	checkOut := truncateToDay(input.CheckOut)

	rooms, err := m.storage.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms from storage: %w", err)
	}

	var available []*Room

	for _, room := range rooms {
		if room.Category == category && room.IsAvailable(checkIn, checkOut) {
			available = append(available, room)
		}
	}

	return available, nil
}

// Reserve books a room for a guest: take the hold, charge the payment, then
// record the reservation. The hold is released on any failure past it, so a
// failed attempt leaves room state exactly as it was.
func (m *Manager) Reserve(ctx context.Context, input *ReserveInput) (*Reservation, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	checkIn := truncateToDay(input.CheckIn)
	checkOut := truncateToDay(input.CheckOut)

	room, err := m.storage.Room(ctx, input.RoomNumber)
	if err != nil {
		return nil, fmt.Errorf("get room %v from storage: %w", input.RoomNumber, err)
	}

	if err := room.Hold(checkIn, checkOut); err != nil {
		return nil, fmt.Errorf("hold room %v: %w", room.Number, err)
	}

	reservation, err := m.buildReservation(ctx, input.GuestID, room, checkIn, checkOut)
	if err != nil {
		room.UnbookDates(checkIn, checkOut)

		return nil, fmt.Errorf("build reservation: %w", err)
	}

	payCtx, cancel := context.WithTimeout(ctx, paymentTimeout)
	defer cancel()

	if err := m.gateway.Charge(payCtx, reservation.Total); err != nil {
		room.UnbookDates(checkIn, checkOut)

		m.l.LogErrorf("Payment of %.2f for room %v declined: %v", reservation.Total, room.Number, err.Error())

		return nil, fmt.Errorf("charge %.2f: %v: %w", reservation.Total, err, ErrPaymentDeclined)
	}

	reservation.Status = StatusConfirmed

	if err := m.storage.SaveReservation(ctx, reservation); err != nil {
		room.UnbookDates(checkIn, checkOut)

		return nil, fmt.Errorf("save reservation to storage: %w", err)
	}

	m.l.LogInfo("Reservation %v confirmed: room %v, %v nights, total %.2f",
		reservation.ID, room.Number, Nights(checkIn, checkOut), reservation.Total)

	return reservation, nil
}

func (m *Manager) buildReservation(
	ctx context.Context,
	guestID string,
	room *Room,
	checkIn, checkOut time.Time,
) (*Reservation, error) {
	id, err := m.idGenerator.NewID(ctx)
	if err != nil {
		return nil, ErrNextID
	}

	return &Reservation{
		ID:         id,
		GuestID:    guestID,
		RoomNumber: room.Number,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Total:      float64(Nights(checkIn, checkOut)) * room.Price(),
		Status:     StatusPendingPayment,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Cancel releases a reservation's nights and marks it cancelled. It reports
// whether a state change occurred: cancelling an already-cancelled booking is
// a no-op, not an error. The released range comes from the reservation itself,
// never from the caller.
func (m *Manager) Cancel(ctx context.Context, bookingID string) (bool, error) {
	reservation, err := m.storage.Reservation(ctx, bookingID)
	if err != nil {
		return false, fmt.Errorf("get booking %v from storage: %w", bookingID, err)
	}

	if reservation.Status == StatusCancelled {
		return false, nil
	}

	room, err := m.storage.Room(ctx, reservation.RoomNumber)
	if err != nil {
		return false, fmt.Errorf("get room %v from storage: %w", reservation.RoomNumber, err)
	}

	room.UnbookDates(reservation.CheckIn, reservation.CheckOut)
	reservation.Status = StatusCancelled

	if err := m.storage.SaveReservation(ctx, reservation); err != nil {
		room.BookDates(reservation.CheckIn, reservation.CheckOut)
		reservation.Status = StatusConfirmed

		return false, fmt.Errorf("save cancelled reservation to storage: %w", err)
	}

	m.l.LogInfo("Reservation %v cancelled, room %v freed", reservation.ID, room.Number)

	return true, nil
}

// Booking returns a reservation by id.
func (m *Manager) Booking(ctx context.Context, bookingID string) (*Reservation, error) {
	reservation, err := m.storage.Reservation(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %v from storage: %w", bookingID, err)
	}

	return reservation, nil
}

// GuestBookings returns every reservation referencing the guest.
func (m *Manager) GuestBookings(ctx context.Context, guestID string) ([]*Reservation, error) {
	reservations, err := m.storage.ReservationsByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("list bookings of guest %v from storage: %w", guestID, err)
	}

	return reservations, nil
}

// SetRoomPrice adjusts a room's nightly rate. Existing reservation totals are
// unaffected.
func (m *Manager) SetRoomPrice(ctx context.Context, roomNumber string, price float64) error {
	if price < 0 {
		inputErr := newInputError()
		inputErr.addError("price_per_night", "price must not be negative")

		return inputErr
	}

	room, err := m.storage.Room(ctx, roomNumber)
	if err != nil {
		return fmt.Errorf("get room %v from storage: %w", roomNumber, err)
	}

	room.SetPrice(price)

	if err := m.storage.SaveRoom(ctx, room); err != nil {
		return fmt.Errorf("save room %v to storage: %w", roomNumber, err)
	}

	return nil
}

// RegisterGuest adds a guest keyed by username.
func (m *Manager) RegisterGuest(ctx context.Context, input *RegisterInput) (*Guest, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := m.storage.GuestByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("username %v: %w", input.Username, ErrDuplicateUsername)
	} else if !errors.Is(err, ErrGuestNotFound) {
		return nil, fmt.Errorf("get guest %v from storage: %w", input.Username, err)
	}

	id, err := m.idGenerator.NewID(ctx)
	if err != nil {
		return nil, ErrNextID
	}

	guest := &Guest{
		ID:       id,
		Username: input.Username,
		Password: input.Password,
	}

	if err := m.storage.SaveGuest(ctx, guest); err != nil {
		return nil, fmt.Errorf("save guest to storage: %w", err)
	}

	m.l.LogInfo("Guest %v registered with id %v", guest.Username, guest.ID)

	return guest, nil
}

// Login checks the credential by plain equality. Password hashing is
// deliberately out of scope.
func (m *Manager) Login(ctx context.Context, input *LoginInput) (*Guest, error) {
	guest, err := m.storage.GuestByUsername(ctx, input.Username)
	if errors.Is(err, ErrGuestNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("get guest %v from storage: %w", input.Username, err)
	}

	if guest.Password != input.Password {
		return nil, ErrInvalidCredentials
	}

	return guest, nil
}
