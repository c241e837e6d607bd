// Command server runs the voice command HTTP API.
//
// Usage:
//
//	server
//	server -h    print the configuration reference
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) and the
// environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/voicecommand-backend/internal/app"
	"github.com/heartmarshall/voicecommand-backend/internal/config"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s\n\n%s", os.Args[0], config.Usage())
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
