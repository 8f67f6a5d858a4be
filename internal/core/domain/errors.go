package domain

import "errors"

// Error taxonomy. Each kind maps 1:1 to an HTTP status in the API layer:
// Unauthenticated 401, Forbidden 403, NotFound 404, InvalidState and
// InvalidInput 400.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidInput    = errors.New("invalid input")

	// ErrStatusConflict is returned by the store when a conditional
	// status-guarded write matched no row. The service layer translates it
	// into the operation's InvalidState message.
	ErrStatusConflict = errors.New("status changed concurrently")
)

// Error carries a caller-facing message tagged with a taxonomy kind, so
// errors.Is classification and verbatim messages both survive the trip to
// the HTTP layer.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// Unauthenticated builds a 401-class error.
func Unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }

// Forbidden builds a 403-class error.
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// NotFound builds a 404-class error.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// InvalidState builds a 400-class error for a status precondition failure.
func InvalidState(msg string) error { return &Error{Kind: ErrInvalidState, Message: msg} }

// InvalidInput builds a 400-class error for a malformed or missing field.
func InvalidInput(msg string) error { return &Error{Kind: ErrInvalidInput, Message: msg} }

// ErrRequestNotFound is returned when a request id resolves to no row.
var ErrRequestNotFound = NotFound("Request not found")
