// AngelaMos | 2026
// requestid.go

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kenfackariol/ITCare/internal/core"
)

const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID honours a caller supplied id of sane length and mints one otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := core.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(r *http.Request) string {
	return core.RequestIDFromContext(r.Context())
}
