package hotel_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/hotelier/internal/hotel"
)

func date(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newRoom(t *testing.T, number string, category hotel.Category) *hotel.Room {
	t.Helper()

	room, err := hotel.NewRoom(number, category)
	require.NoError(t, err)

	return room
}

func TestNewRoom_CopiesCategoryMetadata(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	assert.Equal(t, "101", room.Number)
	assert.InDelta(t, 100.00, room.Price(), 0)
	assert.Equal(t, 2, room.Capacity)
}

func TestNewRoom_UnknownCategory(t *testing.T) {
	_, err := hotel.NewRoom("999", hotel.Category("PENTHOUSE"))
	require.ErrorIs(t, err, hotel.ErrUnknownCategory)
}

func TestRoom_AvailabilityAfterDisjointBookings(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	room.BookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))
	room.BookDates(date(t, 2024, time.June, 10), date(t, 2024, time.June, 12))

	// Disjoint from both booked ranges.
	assert.True(t, room.IsAvailable(date(t, 2024, time.June, 4), date(t, 2024, time.June, 10)))
	assert.True(t, room.IsAvailable(date(t, 2024, time.June, 12), date(t, 2024, time.June, 20)))

	// Any night inside a booked range.
	assert.False(t, room.IsAvailable(date(t, 2024, time.June, 1), date(t, 2024, time.June, 2)))
	assert.False(t, room.IsAvailable(date(t, 2024, time.June, 3), date(t, 2024, time.June, 5)))
	assert.False(t, room.IsAvailable(date(t, 2024, time.June, 11), date(t, 2024, time.June, 12)))
}

func TestRoom_CheckoutDayIsNotANight(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	room.BookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))

	// A stay may start on another stay's checkout day.
	assert.True(t, room.IsAvailable(date(t, 2024, time.June, 4), date(t, 2024, time.June, 6)))
}

func TestRoom_EmptyRangeIsAvailable(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	room.BookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))

	assert.True(t, room.IsAvailable(date(t, 2024, time.June, 2), date(t, 2024, time.June, 2)))
	assert.True(t, room.IsAvailable(date(t, 2024, time.June, 4), date(t, 2024, time.June, 1)))
}

func TestRoom_BookUnbookRoundTrip(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	room.BookDates(date(t, 2024, time.June, 10), date(t, 2024, time.June, 12))
	before := room.BookedDates()

	room.BookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))
	room.UnbookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))

	assert.Equal(t, before, room.BookedDates())
}

func TestRoom_UnbookAbsentDatesIsNoop(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	room.UnbookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))

	assert.Empty(t, room.BookedDates())
}

func TestRoom_BookDatesIsIdempotentPerDate(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	room.BookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))
	room.BookDates(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4))

	assert.Len(t, room.BookedDates(), 3)
}

func TestRoom_HoldConflict(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	require.NoError(t, room.Hold(date(t, 2024, time.June, 1), date(t, 2024, time.June, 4)))

	err := room.Hold(date(t, 2024, time.June, 2), date(t, 2024, time.June, 5))
	require.Error(t, err)

	conflictErr := hotel.IsConflictError(err)
	require.NotNil(t, conflictErr)
	assert.Equal(t, 1, conflictErr.UnavailableRoomsCount())

	// A failed hold must not book anything: the non-clashing night stays free.
	assert.True(t, room.IsAvailable(date(t, 2024, time.June, 4), date(t, 2024, time.June, 5)))
}

func TestRoom_ConcurrentHoldsOneWinner(t *testing.T) {
	room := newRoom(t, "101", hotel.CategoryStandard)

	const attempts = 32

	checkIn := date(t, 2024, time.June, 1)
	checkOut := date(t, 2024, time.June, 4)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := room.Hold(checkIn, checkOut); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestNights(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"three nights", date(t, 2024, time.June, 1), date(t, 2024, time.June, 4), 3},
		{"one night", date(t, 2024, time.June, 1), date(t, 2024, time.June, 2), 1},
		{"same day", date(t, 2024, time.June, 1), date(t, 2024, time.June, 1), 0},
		{"inverted", date(t, 2024, time.June, 4), date(t, 2024, time.June, 1), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, hotel.Nights(tc.checkIn, tc.checkOut))
		})
	}
}
