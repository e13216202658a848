package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthFailure        = fmt.Errorf("authentication failed")
	ErrUnknownConnection  = fmt.Errorf("unknown connection")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
)

// MapToHTTPStatus translates domain errors at the HTTP edge.
// Unknown errors stay opaque to the client.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAuthFailure):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
