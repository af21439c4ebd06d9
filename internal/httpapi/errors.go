package httpapi

import (
	"encoding/json"
	"net/http"
)

// APIError is the {code,message} shape every error response carries, per
// spec §7. Status is the HTTP status code it maps to; it never reaches the
// client body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string { return e.Code + ": " + e.Message }

func newError(status int, code, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// Sentinel errors for the client-facing codes spec §6/§7 name explicitly.
// Handlers wrap these with a specific message via withMessage.
var (
	errInvalidArgument = newError(http.StatusBadRequest, "invalidArgument", "invalid argument")
	errMapNotFound     = newError(http.StatusNotFound, "mapNotFound", "map not found")
	errInvalidToken    = newError(http.StatusUnauthorized, "invalidToken", "authorization header is missing or malformed")
	errUnknownToken    = newError(http.StatusUnauthorized, "unknownToken", "player token has not been found")
	errInternal        = newError(http.StatusInternalServerError, "internalError", "internal server error")
)

func withMessage(base *APIError, message string) *APIError {
	return &APIError{Code: base.Code, Message: message, Status: base.Status}
}

// writeError writes the JSON error body and status for err. Non-*APIError
// values are wrapped as 500s, per spec §7 ("all non-httpException
// exceptions from handlers are wrapped").
func writeError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = errInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
