// Package fuzzymatch scores entity hints against a tenant's projects and
// customers with subsequence matching.
package fuzzymatch

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// EntityLister lists the entities of one kind in a tenant.
type EntityLister interface {
	ListEntityRefs(ctx context.Context, tenantID uuid.UUID, kind domain.EntityKind) ([]domain.EntityRef, error)
}

// Matcher implements entity lookup over an EntityLister.
type Matcher struct {
	refs EntityLister
	log  *slog.Logger
}

// New creates a Matcher.
func New(refs EntityLister, logger *slog.Logger) *Matcher {
	return &Matcher{
		refs: refs,
		log:  logger.With("adapter", "fuzzymatch"),
	}
}

// refSource adapts entity labels to fuzzy.Source.
type refSource []domain.EntityRef

func (s refSource) String(i int) string { return strings.ToLower(s[i].Label) }
func (s refSource) Len() int            { return len(s) }

// Lookup returns every entity the hint matches, best first. An exact
// case-insensitive match on the label or code scores 1; any other match
// scores the share of the label's runes the hint covers.
func (m *Matcher) Lookup(ctx context.Context, tenantID uuid.UUID, kind domain.EntityKind, hint string) ([]domain.EntityCandidate, error) {
	refs, err := m.refs.ListEntityRefs(ctx, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("fuzzymatch: list %s: %w", kind, err)
	}

	hint = strings.TrimSpace(hint)
	if hint == "" || len(refs) == 0 {
		return []domain.EntityCandidate{}, nil
	}

	scores := make(map[int]float64)
	for _, match := range fuzzy.FindFrom(strings.ToLower(hint), refSource(refs)) {
		labelRunes := utf8.RuneCountInString(refs[match.Index].Label)
		if labelRunes == 0 {
			continue
		}
		scores[match.Index] = min(float64(len(match.MatchedIndexes))/float64(labelRunes), 1)
	}
	for i, ref := range refs {
		if strings.EqualFold(ref.Label, hint) || (ref.Code != nil && strings.EqualFold(*ref.Code, hint)) {
			scores[i] = 1
		}
	}

	candidates := make([]domain.EntityCandidate, 0, len(scores))
	for i, score := range scores {
		candidates = append(candidates, domain.EntityCandidate{
			ID:    refs[i].ID,
			Label: refs[i].Label,
			Score: score,
		})
	}
	slices.SortFunc(candidates, func(a, b domain.EntityCandidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})

	m.log.DebugContext(ctx, "hint matched",
		slog.String("kind", string(kind)),
		slog.Int("entities", len(refs)),
		slog.Int("candidates", len(candidates)),
	)
	return candidates, nil
}
