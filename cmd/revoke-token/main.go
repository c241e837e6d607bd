// Command revoke-token revokes a device token by id.
//
// Usage:
//
//	revoke-token --id=<uuid>
//
// Reads the same configuration as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/devicetoken"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/tenant"
	"github.com/heartmarshall/voicecommand-backend/internal/app"
	"github.com/heartmarshall/voicecommand-backend/internal/config"
)

func main() {
	id := flag.String("id", "", "id of the device token to revoke")
	flag.Parse()

	tokenID, err := uuid.Parse(*id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: revoke-token --id=<uuid>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	svc := app.NewAuthService(cfg.Auth, logger, devicetoken.New(pool), tenant.New(pool))

	token, err := svc.RevokeDeviceToken(ctx, tokenID)
	if err != nil {
		log.Fatalf("revoke token: %v", err)
	}

	if token.RevokedAt != nil {
		fmt.Printf("Token %s revoked at %s.\n", token.ID, token.RevokedAt.Format(time.RFC3339))
		return
	}
	fmt.Printf("Token %s revoked.\n", token.ID)
}
