package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/devicetoken"
	inboxrepo "github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/inbox"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/tenant"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/workitem"
	"github.com/heartmarshall/voicecommand-backend/internal/adapter/provider/fuzzymatch"
	authpkg "github.com/heartmarshall/voicecommand-backend/internal/auth"
	"github.com/heartmarshall/voicecommand-backend/internal/config"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/provider"
	authsvc "github.com/heartmarshall/voicecommand-backend/internal/service/auth"
	"github.com/heartmarshall/voicecommand-backend/internal/service/execution"
	"github.com/heartmarshall/voicecommand-backend/internal/service/interpret"
	"github.com/heartmarshall/voicecommand-backend/internal/service/resolve"
	"github.com/heartmarshall/voicecommand-backend/internal/service/voice"
	"github.com/heartmarshall/voicecommand-backend/internal/transport/middleware"
	"github.com/heartmarshall/voicecommand-backend/internal/transport/rest"
)

// Understander is the text-understanding model behind the interpreter.
type Understander interface {
	Understand(ctx context.Context, req provider.UnderstandRequest) (json.RawMessage, error)
}

// Server is the assembled application: the routed HTTP handler plus the
// services whose lifecycle outlives a request.
type Server struct {
	Handler http.Handler
	Voice   *voice.Service
	Auth    *authsvc.Service
}

// NewServer wires repositories, services and transport on top of pool.
func NewServer(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, llm Understander) (*Server, error) {
	// 1. Infrastructure.
	txm := postgres.NewTxManager(pool)

	// 2. Repositories.
	auditRepo := audit.New(pool)
	tokenRepo := devicetoken.New(pool)
	inboxRepo := inboxrepo.New(pool)
	tenantRepo := tenant.New(pool)
	workRepo := workitem.New(pool)

	// 3. Credentials.
	authService := NewAuthService(cfg.Auth, logger, tokenRepo, tenantRepo)

	// 4. Pipeline services.
	interpretService, err := interpret.NewService(logger, llm, domain.ConfidenceThresholds{
		High:   cfg.Voice.HighConfidence,
		Medium: cfg.Voice.MediumConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("interpret service: %w", err)
	}

	resolveService := resolve.NewService(logger, fuzzymatch.New(workRepo, logger))
	executionService := execution.NewService(logger, resolveService, workRepo, cfg.Voice.MatchThreshold)

	voiceService := voice.NewService(
		logger, authService, tenantRepo, inboxRepo, auditRepo,
		interpretService, executionService, txm, cfg.Voice,
	)

	// 5. Routes.
	mux := http.NewServeMux()
	rest.NewHealthHandler(BuildVersion(), map[string]rest.Pinger{"database": pool}).Register(mux)
	rest.NewVoiceHandler(voiceService, logger).Register(mux)

	return &Server{
		Handler: middleware.Default(logger, cfg.CORS)(mux),
		Voice:   voiceService,
		Auth:    authService,
	}, nil
}

// NewAuthService builds the credential service. Session JWTs are accepted
// only when a JWT secret is configured.
func NewAuthService(cfg config.AuthConfig, logger *slog.Logger, tokens *devicetoken.Repo, memberships *tenant.Repo) *authsvc.Service {
	hasher := authpkg.NewTokenHasher(cfg.TokenPepper)
	if !cfg.WebSessionsEnabled() {
		return authsvc.NewService(logger, tokens, memberships, hasher, nil, cfg)
	}
	jwtMgr := authpkg.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTokenTTL)
	return authsvc.NewService(logger, tokens, memberships, hasher, jwtMgr, cfg)
}
