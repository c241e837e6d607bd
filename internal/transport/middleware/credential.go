package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/voicecommand-backend/pkg/ctxutil"
)

// TokenQueryParam carries the credential for clients that cannot set headers.
const TokenQueryParam = "token"

// Credential stores the request's bearer credential in the context. The
// Authorization header wins over the token query parameter. Requests without
// a credential pass through; the voice service rejects them.
func Credential() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := bearerToken(r)
			if credential == "" {
				credential = strings.TrimSpace(r.URL.Query().Get(TokenQueryParam))
			}
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := ctxutil.WithCredential(r.Context(), credential)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
