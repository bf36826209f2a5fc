package middleware

import (
	"encoding/json"
	"net/http"
)

// writeFailure writes the API's error envelope. Middleware runs before any
// handler, so it cannot borrow the handler package's helpers.
func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
