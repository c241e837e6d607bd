package middleware

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/voicecommand-backend/internal/config"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middleware into a single Middleware.
// Middleware are applied in the order given: Chain(mw1, mw2)(handler)
// results in mw1(mw2(handler)), so mw1 executes first (outermost).
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Default is the stack every API route runs behind. Recovery sits inside
// Logger so a recovered panic is still logged as a 500.
func Default(logger *slog.Logger, cors config.CORSConfig) Middleware {
	return Chain(
		RequestID(),
		Credential(),
		Logger(logger),
		Recovery(logger),
		CORS(cors),
	)
}
