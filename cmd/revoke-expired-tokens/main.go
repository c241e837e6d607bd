// Command revoke-expired-tokens marks every expired device token as revoked.
// Token rows are kept so captured inbox entries still reference them.
//
// Usage:
//
//	revoke-expired-tokens
//
// Reads the same configuration as the server.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/devicetoken"
	"github.com/heartmarshall/voicecommand-backend/internal/app"
	"github.com/heartmarshall/voicecommand-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log).With("service", "revoke-expired-tokens")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	n, err := devicetoken.New(pool).RevokeExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("revoke expired tokens: %v", err)
	}

	logger.Info("expired device tokens revoked", slog.Int64("count", n))
}
