package response

import (
	"encoding/json"
	"net/http"

	"github.com/classpilot/classpilot/pkg/errors"
)

// HandlerFunc is a handler that returns an error instead of writing failures
// directly, so error mapping lives in one place.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Middleware adapts a HandlerFunc into an http.HandlerFunc, translating
// returned errors into JSON error responses.
func Middleware(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(w, err)
		}
	}
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError maps err to an HTTP status and writes a JSON error body.
func WriteError(w http.ResponseWriter, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		_ = WriteJSON(w, appErr.Status(), ErrorResponse{
			Error:   appErr.Message,
			Details: appErr.Details,
		})
		return
	}
	_ = WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
