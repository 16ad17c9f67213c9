package middleware

import (
	"net/http"

	"github.com/benvon/focusplan/internal/request"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestID attaches a request ID to the context and echoes it in the
// response. A caller-supplied X-Request-ID is reused when it looks sane.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(request.HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(request.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(request.WithRequestID(r.Context(), id)))
	})
}
