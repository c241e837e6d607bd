//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/voicecommand-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/voicecommand-backend/internal/app"
	"github.com/heartmarshall/voicecommand-backend/internal/config"
	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/provider"
	authsvc "github.com/heartmarshall/voicecommand-backend/internal/service/auth"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	srv    *app.Server
	llm    *scriptedLLM
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// scriptedLLM answers every Understand call with the configured document.
type scriptedLLM struct {
	mu    sync.Mutex
	doc   string
	calls []provider.UnderstandRequest
}

func (l *scriptedLLM) Understand(_ context.Context, req provider.UnderstandRequest) (json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, req)
	return json.RawMessage(l.doc), nil
}

func (l *scriptedLLM) respond(doc string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.doc = doc
}

func (l *scriptedLLM) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

const taskDoc = `{
	"version": "v1",
	"action": "create_task",
	"summary": "Order tiles",
	"confidence": 0.92,
	"task": {"title": "Order tiles", "priority": "high"}
}`

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			TokenPepper:    "e2e-pepper",
			RequiredScope:  "voice:command",
			DeviceTokenTTL: time.Hour,
		},
		Voice: config.VoiceConfig{
			HighConfidence:    0.8,
			MediumConfidence:  0.5,
			MatchThreshold:    0.8,
			BackgroundTimeout: 10 * time.Second,
			MaxTextLength:     2000,
			DefaultLocale:     "de-DE",
		},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type,Idempotency-Key",
			MaxAge:         86400,
		},
	}

	llm := &scriptedLLM{doc: taskDoc}
	srv, err := app.NewServer(cfg, logger, pool, llm)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		srv.Voice.Wait()
	})

	return &testServer{
		URL:    ts.URL,
		Client: ts.Client(),
		Pool:   pool,
		srv:    srv,
		llm:    llm,
	}
}

// issueToken seeds a member and mints a device token for them.
func (ts *testServer) issueToken(t *testing.T, opts ...testhelper.MemberOption) (string, domain.TenantMembership) {
	t.Helper()

	m := testhelper.SeedMember(t, ts.Pool, opts...)
	issued, err := ts.srv.Auth.IssueDeviceToken(context.Background(), authsvc.IssueTokenInput{
		UserID: m.UserID,
		Name:   "e2e",
	})
	require.NoError(t, err)
	return issued.Raw, m
}

// do sends a JSON request and returns the status and decoded body.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

// capture posts a command with a fresh idempotency key and returns the entry id.
func (ts *testServer) capture(t *testing.T, token, text string) uuid.UUID {
	t.Helper()

	status, body := ts.do(t, http.MethodPost, "/v1/voice/commands", map[string]any{
		"text":           text,
		"idempotencyKey": "e2e-" + uuid.NewString(),
	}, token)
	require.Equal(t, http.StatusAccepted, status, "capture: %v", body)

	id, err := uuid.Parse(body["entryId"].(string))
	require.NoError(t, err)
	return id
}

// awaitStatus polls the entry until it reaches want and returns its body.
func (ts *testServer) awaitStatus(t *testing.T, token string, id uuid.UUID, want string) map[string]any {
	t.Helper()

	var last map[string]any
	require.Eventually(t, func() bool {
		_, last = ts.do(t, http.MethodGet, "/v1/voice/commands/"+id.String(), nil, token)
		return last["status"] == want
	}, 10*time.Second, 50*time.Millisecond, "entry %s never reached %s", id, want)
	return last
}
