package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status and machine code a handler should respond with.
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
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string, err error) *Error { return New(http.StatusBadRequest, code, err) }
func Conflict(code string, err error) *Error   { return New(http.StatusConflict, code, err) }
func Upstream(code string, err error) *Error   { return New(http.StatusBadGateway, code, err) }

// As unwraps err into an *Error, falling back to a 500 with the given code.
func As(err error, fallbackCode string) *Error {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e
	}
	return New(http.StatusInternalServerError, fallbackCode, err)
}
