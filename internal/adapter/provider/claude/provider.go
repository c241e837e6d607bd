// Package claude turns voice command text into an intent document using
// the Anthropic Messages API.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/voicecommand-backend/internal/config"
	"github.com/heartmarshall/voicecommand-backend/internal/provider"
)

// ErrNoDocument is returned when the model reply holds no JSON object.
var ErrNoDocument = errors.New("claude: no JSON object in response")

// Provider implements text understanding on top of a Claude model.
type Provider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	log       *slog.Logger
}

// NewProvider creates a Provider from the LLM configuration.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       logger.With("adapter", "claude"),
	}
}

// Understand asks the model for an intent document and returns the first
// JSON object of its reply. The document is not validated here.
func (p *Provider) Understand(ctx context.Context, req provider.UnderstandRequest) (json.RawMessage, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(req))),
		},
	})
	if err != nil {
		p.log.WarnContext(ctx, "messages request failed",
			slog.String("model", p.model),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("claude: messages request: %w", err)
	}

	var reply strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}

	doc, err := extractJSON(reply.String())
	if err != nil {
		return nil, err
	}

	p.log.DebugContext(ctx, "intent document received",
		slog.String("model", p.model),
		slog.Duration("took", time.Since(start)),
		slog.Int("bytes", len(doc)),
	)
	return json.RawMessage(doc), nil
}

// buildPrompt renders the instruction for one command.
func buildPrompt(req provider.UnderstandRequest) string {
	var b strings.Builder

	b.WriteString("You turn short voice commands from field staff into structured intents.\n\n")
	fmt.Fprintf(&b, "Today is %s (%s).\n", req.Now.Format("2006-01-02"), req.Now.Weekday())
	if req.Locale != "" {
		fmt.Fprintf(&b, "The command is spoken in locale %s.\n", req.Locale)
	}

	if len(req.Hints) > 0 {
		keys := make([]string, 0, len(req.Hints))
		for k := range req.Hints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nContext supplied by the client:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, req.Hints[k])
		}
	}

	fmt.Fprintf(&b, "\nCommand:\n%q\n", req.Text)

	b.WriteString("\nOutput ONLY a JSON object that validates against this JSON schema:\n")
	b.WriteString(req.Schema)
	b.WriteString(`

Rules:
- Use action "create_task" for to-dos and "create_appointment" for anything with a date and time slot
- Resolve relative dates against today; dates are YYYY-MM-DD, times are HH:MM (24h)
- Put project numbers or names into task.projectHint and customer names into appointment.customerName exactly as spoken
- confidence is your certainty from 0 to 1 that the intent is what the speaker wanted
- Write title and summary in the language of the command
- Output ONLY the JSON, no markdown, no explanations`)

	return b.String()
}

// extractJSON returns the text between the first '{' and the last '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoDocument
	}
	doc := s[start : end+1]
	if !json.Valid([]byte(doc)) {
		return "", fmt.Errorf("claude: response does not contain valid JSON")
	}
	return doc, nil
}
