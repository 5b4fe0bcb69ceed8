package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/emeralddgc/disc-tracker/internal/app/service"
	"github.com/emeralddgc/disc-tracker/internal/models"
)

// WithAdminAuth rejects requests that carry neither a live bearer token
// nor a valid session cookie.
func WithAdminAuth(auth service.AuthIface) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAuthorized(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "invalid or expired session"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
