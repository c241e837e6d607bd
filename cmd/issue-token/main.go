// Command issue-token mints a device token for a user and prints the raw
// secret once. Only its hash is stored.
//
// Usage:
//
//	issue-token --user=<uuid> [--name="iPhone Shortcut"] [--ttl=8760h]
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
	authsvc "github.com/heartmarshall/voicecommand-backend/internal/service/auth"
)

func main() {
	user := flag.String("user", "", "id of the user the token acts for")
	name := flag.String("name", "", "label shown when listing tokens")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: AUTH_DEVICE_TOKEN_TTL)")
	flag.Parse()

	userID, err := uuid.Parse(*user)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: issue-token --user=<uuid> [--name=label] [--ttl=8760h]")
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

	issued, err := svc.IssueDeviceToken(ctx, authsvc.IssueTokenInput{
		UserID: userID,
		Name:   *name,
		TTL:    *ttl,
	})
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Printf("Token %s issued for user %s, expires %s.\n",
		issued.Token.ID, issued.Token.UserID, issued.Token.ExpiresAt.Format(time.RFC3339))
	fmt.Println(issued.Raw)
}
