package http

import (
	"encoding/json"
	"net/http"

	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.From(r.Context()).Error("failed to marshal response", logging.ErrAttr(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}
