package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lingo/authoring"

	"gorm.io/gorm"
)

// Error is a failure the HTTP layer can answer with a specific status and code.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("service error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(what string) *Error {
	return NewError(http.StatusNotFound, "NOT_FOUND", fmt.Errorf("%s not found!", what))
}

func Forbidden(msg string) *Error {
	return NewError(http.StatusForbidden, "FORBIDDEN", errors.New(msg))
}

func Conflict(code, msg string) *Error {
	return NewError(http.StatusConflict, code, errors.New(msg))
}

func BadRequest(msg string) *Error {
	return NewError(http.StatusBadRequest, "BAD_REQUEST", errors.New(msg))
}

var (
	ErrStaleRevision = Conflict("STALE_REVISION", "This version was changed by someone else, reload and try again!")
	ErrNotDraft      = NewError(http.StatusConflict, "NOT_DRAFT", authoring.ErrNotDraft)
	ErrPayment       = NewError(http.StatusPaymentRequired, "PAYMENT_FAILED", errors.New("Payment could not be completed!"))
)

// ValidationErrors carries a full checklist of user-correctable problems.
type ValidationErrors []authoring.ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the errors keyed by field, the shape validators answer with.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		out[e.Field] = e.Message
	}
	return out
}

// notFoundOr turns gorm's record-not-found into a NotFound error.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(what)
	}
	return err
}
