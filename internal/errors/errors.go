package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func BadRequest(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// IsNotFound matches wrapped errors too, so storage code is free to add
// context with fmt.Errorf("...: %w", err).
func IsNotFound(err error) bool {
	var e *ErrorWithStatusCode
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}
