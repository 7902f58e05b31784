package handler

import (
	"encoding/json"
	"net/http"
)

// writeJSON serializes v with the given status code. Encoding failures are
// ignored at this point; headers are already out.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
