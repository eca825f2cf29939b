// Package apperr is the error taxonomy shared by every service. Handlers
// return these unchanged and FiberErrorHandler turns them into responses.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindNotFound
	KindBadRequest
	KindUnprocessable
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnprocessable:
		return "unprocessable"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// StatusCode maps the kind onto its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindBadRequest:
		return fiber.StatusBadRequest
	case KindUnprocessable:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func Unauthorized(msg string) *Error  { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error     { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error      { return &Error{Kind: KindNotFound, Message: msg} }
func BadRequest(msg string) *Error    { return &Error{Kind: KindBadRequest, Message: msg} }
func Unprocessable(msg string) *Error { return &Error{Kind: KindUnprocessable, Message: msg} }

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
