package middleware

import (
	"encoding/json"
	"net/http"
)

func writeErr(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// unauthorized writes a 401 with the bearer challenge header. Every
// authentication failure goes through here so the status and challenge are
// uniform; only the message varies.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeErr(w, http.StatusUnauthorized, message)
}
