package hotel

import "time"

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusConfirmed      Status = "CONFIRMED"
	StatusCancelled      Status = "CANCELLED"
	StatusCheckedIn      Status = "CHECKED_IN"
	StatusCheckedOut     Status = "CHECKED_OUT"
)

// Reservation is a guest's claim on a room for a date range. Everything but
// Status is fixed at creation; Total in particular is never recomputed.
type Reservation struct {
	ID         string    `json:"booking_id"`
	GuestID    string    `json:"guest_id"`
	RoomNumber string    `json:"room_number"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Total      float64   `json:"total_amount"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Guest struct {
	ID       string `json:"guest_id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

type RoomView struct {
	Number        string   `json:"room_number"`
	Category      Category `json:"category"`
	CategoryName  string   `json:"category_name"`
	PricePerNight float64  `json:"price_per_night"`
	Capacity      int      `json:"capacity"`
}

type SearchInput struct {
	Category string    `json:"category"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type ReserveInput struct {
	GuestID    string    `json:"guest_id"`
	RoomNumber string    `json:"room_number"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
