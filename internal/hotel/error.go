package hotel

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNextID             = errors.New("get next id from generator")
	ErrUnknownCategory    = errors.New("unknown room category")
	ErrRoomNotFound       = errors.New("room not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrGuestNotFound      = errors.New("guest not found")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPaymentDeclined    = errors.New("payment declined")
)

// ConflictError accumulates the nights on which a requested range clashes
// with a room's existing bookings.
type ConflictError struct {
	errors []string
}

func NewConflictError() *ConflictError {
	//nolint:exhaustruct
	return &ConflictError{}
}

func IsConflictError(err error) *ConflictError {
	if err == nil {
		return nil
	}

	var conflictErr *ConflictError

	if errors.As(err, &conflictErr) {
		return conflictErr
	}

	return nil
}

func (e *ConflictError) AddUnavailableRoom(roomNumber string, dates []time.Time) {
	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format(dateLayout))
	}

	e.errors = append(e.errors, fmt.Sprintf("room '%v' is unavailable on following dates %v", roomNumber, formatted))
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%+v", e.errors)
}

func (e *ConflictError) Fields() []string {
	return e.errors
}

func (e *ConflictError) UnavailableRoomsCount() int {
	return len(e.errors)
}

type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
