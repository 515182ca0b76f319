package errutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// ErrorResponse is the JSON body of an error response.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Values map[string]any `json:"values,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}

	// only client errors expose their context values
	var ge *goerr.Error
	if status < http.StatusInternalServerError && errors.As(err, &ge) {
		resp.Values = ge.Values()
	}
	if status >= http.StatusInternalServerError {
		resp.Error = http.StatusText(status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
