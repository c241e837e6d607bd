package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/pkg/ctxutil"
)

// RequestIDHeader is propagated from the client or generated per request.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLength = 128

// RequestID stores the request ID in the context and echoes it in the
// response. Incoming IDs longer than 128 bytes are replaced.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
