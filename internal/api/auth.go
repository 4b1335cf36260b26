package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/ignite/guest-marketing/internal/pkg/httputil"
)

const adminTokenHeader = "X-Admin-Token"

// requireAdmin rejects requests whose X-Admin-Token does not match token.
// An empty token disables the check.
func requireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(adminTokenHeader))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				httputil.Unauthorized(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
