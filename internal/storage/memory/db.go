package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/avstrong/hotelier/internal/hotel"
	"github.com/avstrong/hotelier/internal/logger"
)

type Config struct {
	L *logger.Logger
}

// DB is the in-memory store for rooms, guests and reservations. Rooms keep
// their inventory insertion order so searches are deterministic.
type DB struct {
	mu           sync.Mutex
	l            *logger.Logger
	rooms        map[string]*hotel.Room
	roomOrder    []string
	guests       map[string]*hotel.Guest
	reservations map[string]*hotel.Reservation
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:            conf.L,
		rooms:        make(map[string]*hotel.Room),
		guests:       make(map[string]*hotel.Guest),
		reservations: make(map[string]*hotel.Reservation),
	}
}

func (db *DB) SaveRoom(_ context.Context, room *hotel.Room) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.rooms[room.Number]; !exists {
		db.roomOrder = append(db.roomOrder, room.Number)
	}

	db.rooms[room.Number] = room

	return nil
}

func (db *DB) Room(_ context.Context, number string) (*hotel.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	room, exists := db.rooms[number]
	if !exists {
		return nil, fmt.Errorf("room %v: %w", number, hotel.ErrRoomNotFound)
	}

	return room, nil
}

func (db *DB) Rooms(_ context.Context) ([]*hotel.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rooms := make([]*hotel.Room, 0, len(db.roomOrder))

	for _, number := range db.roomOrder {
		rooms = append(rooms, db.rooms[number])
	}

	return rooms, nil
}

func (db *DB) SaveGuest(_ context.Context, guest *hotel.Guest) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.guests[guest.Username] = guest

	return nil
}

func (db *DB) GuestByUsername(_ context.Context, username string) (*hotel.Guest, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	guest, exists := db.guests[username]
	if !exists {
		return nil, fmt.Errorf("guest %v: %w", username, hotel.ErrGuestNotFound)
	}

	return guest, nil
}

func (db *DB) SaveReservation(_ context.Context, reservation *hotel.Reservation) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.reservations[reservation.ID] = reservation

	return nil
}

func (db *DB) Reservation(_ context.Context, id string) (*hotel.Reservation, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	reservation, exists := db.reservations[id]
	if !exists {
		return nil, fmt.Errorf("booking %v: %w", id, hotel.ErrBookingNotFound)
	}

	return reservation, nil
}

func (db *DB) ReservationsByGuest(_ context.Context, guestID string) ([]*hotel.Reservation, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var reservations []*hotel.Reservation

	for _, reservation := range db.reservations {
		if reservation.GuestID == guestID {
			reservations = append(reservations, reservation)
		}
	}

	return reservations, nil
}
