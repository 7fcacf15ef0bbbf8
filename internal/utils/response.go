package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeValidation     = "validation_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeTokenExpired   = "token_expired"
	ErrCodeForbidden      = "forbidden"
	ErrCodeInternal       = "internal_server_error"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
)

// ErrorResponse carries a standard code and message plus an optional
// `Errors` map with field-scoped validation messages.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RespondErrorWithCode builds a JSON error response with a standard code and
// message. The optional `fieldErrors` map is included if non-nil. Any devErrs
// are logged, never sent to the client.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicMessage string,
	fieldErrors map[string]string,
	devErrs ...error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errBody := ErrorResponse{
		Code:    errorCode,
		Message: publicMessage,
		Errors:  fieldErrors,
	}

	for _, devErr := range devErrs {
		if devErr != nil {
			Logger.WithFields(logrus.Fields{
				"status": status,
				"code":   errorCode,
			}).WithError(devErr).Debug("responding with error")
		}
	}

	if err := json.NewEncoder(w).Encode(errBody); err != nil {
		Logger.WithError(err).Error("Failed to encode error response")
	}
}

// RespondWithJSON writes any payload as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		Logger.WithError(err).Error("Failed to encode JSON response")
	}
}
