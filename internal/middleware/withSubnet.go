package middleware

import (
	"net/http"
	"strings"
)

// WithSubnet restricts a route group to callers whose X-Real-IP belongs
// to the trusted subnet. An empty subnet disables the check.
func WithSubnet(subnet string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subnet != "" && !strings.Contains(r.Header.Get("X-Real-IP"), subnet) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
