package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl marks GET responses as publicly cacheable for maxAge seconds.
// Meant for static catalogs like the verification level listing; anything
// caller-specific must not go through it.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	header := fmt.Sprintf("public, max-age=%d", maxAge)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Header().Set("Cache-Control", header)
			}
			next.ServeHTTP(w, r)
		})
	}
}
