// Package interpret turns command text into a validated, versioned intent.
package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
	"github.com/heartmarshall/voicecommand-backend/internal/provider"
)

// understander produces a raw intent document from command text.
type understander interface {
	Understand(ctx context.Context, req provider.UnderstandRequest) (json.RawMessage, error)
}

// Service interprets commands and validates stored intents.
type Service struct {
	log        *slog.Logger
	llm        understander
	schema     *jsonschema.Schema
	thresholds domain.ConfidenceThresholds
	now        func() time.Time
}

// NewService creates a new interpret service. It fails only if the built-in
// schema does not compile.
func NewService(logger *slog.Logger, llm understander, thresholds domain.ConfidenceThresholds) (*Service, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaV1)); err != nil {
		return nil, fmt.Errorf("interpret: add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("interpret: compile schema: %w", err)
	}

	return &Service{
		log:        logger.With("service", "interpret"),
		llm:        llm,
		schema:     schema,
		thresholds: thresholds,
		now:        time.Now,
	}, nil
}

// Schema returns the JSON schema intent documents are validated against.
func Schema() string { return schemaV1 }
