package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"sms-relay-api/logger"

	"github.com/sirupsen/logrus"
)

// Sentinel errors returned by the service layer. Handlers translate them
// into HTTP responses; anything not in this list is treated as an
// infrastructure failure and surfaced as a retryable 500.
var (
	// ErrDenied is returned for any authentication or authorization
	// failure. It deliberately carries no detail about whether the cause
	// was expiry, revocation or absence.
	ErrDenied    = errors.New("access denied")
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrMalformed = errors.New("malformed payload")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FromError maps a service layer error onto an AppError with the right
// HTTP status code.
func FromError(err error) *AppError {
	switch {
	case errors.Is(err, ErrDenied):
		return NewAppError(http.StatusUnauthorized, "Access denied", err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, ErrConflict):
		return NewAppError(http.StatusConflict, "Resource already exists", err)
	case errors.Is(err, ErrMalformed):
		return NewAppError(http.StatusBadRequest, "Malformed request payload", err)
	default:
		return NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
