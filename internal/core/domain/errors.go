package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReference  = errors.New("invalid reference")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation error")
	ErrUnavailable       = errors.New("unavailable")
)

// An Error is a client facing failure of one of the kinds above.
//
// Msg names the offending product or id and is safe to show to callers.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func InvalidReferenceErr(id string) error {
	return newError(ErrInvalidReference, "Invalid product id: %s", id)
}

func ProductNotFoundErr(id string) error {
	return newError(ErrNotFound, "Product not found: %s", id)
}

func InsufficientStockErr(title string) error {
	return newError(ErrInsufficientStock, "Insufficient stock for %s", title)
}

func ValidationErr(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func UnavailableErr(what string) error {
	return newError(ErrUnavailable, "%s is not available", what)
}
