package httpapi

import (
	"encoding/json"
	"net/http"
)

// Validator is implemented by every request body DTO; WithPayload calls it
// after decoding, generalizing the teacher's typed-handler-plus-validation
// wrapper idiom (originally handlers/wrapper.go) to this domain.
type Validator interface {
	Validate() error
}

// WithPayload decodes the JSON request body into a T, validates it, and
// only then calls fn. Decode and validation failures both become 400
// invalidArgument, per spec §7.
func WithPayload[T Validator](fn func(w http.ResponseWriter, r *http.Request, payload T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload T
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, withMessage(errInvalidArgument, "malformed request body: "+err.Error()))
			return
		}
		if err := payload.Validate(); err != nil {
			writeError(w, withMessage(errInvalidArgument, err.Error()))
			return
		}
		fn(w, r, payload)
	}
}
