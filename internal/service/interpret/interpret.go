package interpret

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/provider"
)

// Input is one command to interpret.
type Input struct {
	Text   string
	Locale string
	Hints  map[string]string
}

// Interpret asks the text-understanding provider for an intent and validates
// it. The raw document is returned alongside the intent so it can be stored
// verbatim; it is also returned on validation failure. Every failure is a
// *domain.ParseError.
func (s *Service) Interpret(ctx context.Context, input Input) (*domain.Intent, json.RawMessage, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, nil, domain.NewParseError("command text is empty", nil)
	}

	raw, err := s.llm.Understand(ctx, provider.UnderstandRequest{
		Text:   text,
		Locale: input.Locale,
		Hints:  input.Hints,
		Now:    s.now(),
		Schema: schemaV1,
	})
	if err != nil {
		s.log.WarnContext(ctx, "text understanding failed",
			slog.String("text", preview(text)),
			slog.String("error", err.Error()),
		)
		return nil, nil, domain.NewParseError("text understanding failed", err)
	}

	intent, err := s.Decode(raw)
	if err != nil {
		s.log.InfoContext(ctx, "intent rejected",
			slog.String("text", preview(text)),
			slog.String("error", err.Error()),
		)
		return nil, raw, err
	}

	s.log.InfoContext(ctx, "intent interpreted",
		slog.String("action", intent.Action.String()),
		slog.Float64("confidence", intent.Confidence),
		slog.String("level", intent.ConfidenceLevel.String()),
	)
	return intent, raw, nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		return string(r[:50])
	}
	return s
}
