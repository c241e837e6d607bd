// Package resolve ranks the business entities a free-text hint may refer to.
package resolve

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// MaxCandidates caps the candidate list of a match.
const MaxCandidates = 10

// entityLookup scores a hint against the entities of one kind.
type entityLookup interface {
	Lookup(ctx context.Context, tenantID uuid.UUID, kind domain.EntityKind, hint string) ([]domain.EntityCandidate, error)
}

// Service resolves entity hints. It never mutates state.
type Service struct {
	log    *slog.Logger
	lookup entityLookup
}

// NewService creates a new resolve service.
func NewService(logger *slog.Logger, lookup entityLookup) *Service {
	return &Service{
		log:    logger.With("service", "resolve"),
		lookup: lookup,
	}
}

// MatchByHint returns the candidates for hint ordered by score, then by label
// on equal scores, with BestID set to the top candidate. Scores are clamped
// to [0,1].
func (s *Service) MatchByHint(ctx context.Context, hint string, tenantID uuid.UUID, kind domain.EntityKind) (*domain.EntityMatch, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return nil, domain.NewValidationError("hint", "required")
	}
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", "unknown entity kind")
	}

	found, err := s.lookup.Lookup(ctx, tenantID, kind, hint)
	if err != nil {
		return nil, fmt.Errorf("resolve.MatchByHint %s: %w", kind, err)
	}

	candidates := make([]domain.EntityCandidate, 0, len(found))
	for _, c := range found {
		c.Score = min(max(c.Score, 0), 1)
		candidates = append(candidates, c)
	}
	slices.SortStableFunc(candidates, func(a, b domain.EntityCandidate) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), strings.Compare(a.Label, b.Label))
	})
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	match := &domain.EntityMatch{Candidates: candidates}
	if len(candidates) > 0 {
		best := candidates[0].ID
		match.BestID = &best
		match.Confidence = candidates[0].Score
	}

	s.log.DebugContext(ctx, "hint resolved",
		slog.String("kind", kind.String()),
		slog.String("tenant_id", tenantID.String()),
		slog.Int("candidates", len(candidates)),
		slog.Float64("confidence", match.Confidence),
	)
	return match, nil
}
