// Command migrate applies pending goose migrations.
//
// Usage:
//
//	migrate --dir=./migrations
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the goose SQL migrations")
	flag.Parse()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := postgres.Migrate(ctx, dsn, os.DirFS(*dir), logger); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
