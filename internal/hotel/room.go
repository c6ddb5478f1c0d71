package hotel

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// Room is one physical unit of inventory. Its booked-date set is guarded by a
// per-room lock so that a hold (availability check + date insertion) is a
// single critical section.
type Room struct {
	Number   string
	Category Category
	Capacity int

	mu     sync.Mutex
	price  float64
	booked map[string]struct{}
}

func NewRoom(number string, category Category) (*Room, error) {
	info, ok := category.Info()
	if !ok {
		return nil, fmt.Errorf("room %v: category %q: %w", number, category, ErrUnknownCategory)
	}

	return &Room{
		Number:   number,
		Category: category,
		Capacity: info.Capacity,
		price:    info.BasePrice,
		booked:   make(map[string]struct{}),
	}, nil
}

func dateKey(d time.Time) string {
	return d.Format(dateLayout)
}

// Price returns the current nightly rate.
func (r *Room) Price() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.price
}

// SetPrice adjusts the nightly rate. Totals of existing reservations are
// computed at creation time and are not affected.
func (r *Room) SetPrice(price float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.price = price
}

// IsAvailable reports whether every night in [checkIn, checkOut) is free. An
// empty or inverted range has no nights and is vacuously available; range
// validation is the caller's concern.
func (r *Room) IsAvailable(checkIn, checkOut time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		if _, ok := r.booked[dateKey(d)]; ok {
			return false
		}
	}

	return true
}

// BookDates marks every night in [checkIn, checkOut) as booked. Set semantics,
// already-booked nights are absorbed. It performs no availability check of its
// own; use Hold when the check and the insertion must be atomic.
func (r *Room) BookDates(checkIn, checkOut time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		r.booked[dateKey(d)] = struct{}{}
	}
}

// UnbookDates frees every night in [checkIn, checkOut). Nights that were not
// booked are a no-op.
func (r *Room) UnbookDates(checkIn, checkOut time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		delete(r.booked, dateKey(d))
	}
}

// Hold atomically checks the range and books it under one lock. On conflict it
// books nothing and returns a ConflictError naming the clashing nights. Two
// concurrent holds for overlapping ranges can never both succeed.
func (r *Room) Hold(checkIn, checkOut time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var clashes []time.Time

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		if _, ok := r.booked[dateKey(d)]; ok {
			clashes = append(clashes, d)
		}
	}

	if len(clashes) > 0 {
		conflictErr := NewConflictError()
		conflictErr.AddUnavailableRoom(r.Number, clashes)

		return conflictErr
	}

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		r.booked[dateKey(d)] = struct{}{}
	}

	return nil
}

// BookedDates returns a sorted snapshot of the booked nights.
func (r *Room) BookedDates() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	dates := make([]time.Time, 0, len(r.booked))

	for key := range r.booked {
		d, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}

		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates
}

// View returns the serializable projection of the room.
func (r *Room) View() RoomView {
	info, _ := r.Category.Info()

	return RoomView{
		Number:        r.Number,
		Category:      r.Category,
		CategoryName:  info.DisplayName,
		PricePerNight: r.Price(),
		Capacity:      r.Capacity,
	}
}

// Nights counts the calendar nights in [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	n := 0

	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		n++
	}

	return n
}
