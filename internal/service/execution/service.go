// Package execution decides whether an intent may run and dispatches it to
// the business capability it names.
package execution

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// DefaultMatchThreshold is the score a single candidate must reach for a
// hint to resolve.
const DefaultMatchThreshold = 0.8

// resolver ranks entity candidates for a hint.
type resolver interface {
	MatchByHint(ctx context.Context, hint string, tenantID uuid.UUID, kind domain.EntityKind) (*domain.EntityMatch, error)
}

// workItems creates the business objects intents ask for.
type workItems interface {
	CreateTask(ctx context.Context, t domain.NewTask) (uuid.UUID, error)
	CreateAppointment(ctx context.Context, a domain.NewAppointment) (uuid.UUID, error)
}

// Service runs intents. It never reads or writes inbox entries.
type Service struct {
	log            *slog.Logger
	resolver       resolver
	items          workItems
	matchThreshold float64
}

// NewService creates a new execution service. A non-positive threshold
// selects DefaultMatchThreshold.
func NewService(logger *slog.Logger, resolver resolver, items workItems, matchThreshold float64) *Service {
	if matchThreshold <= 0 {
		matchThreshold = DefaultMatchThreshold
	}
	return &Service{
		log:            logger.With("service", "execution"),
		resolver:       resolver,
		items:          items,
		matchThreshold: matchThreshold,
	}
}

// Input is one execution request.
type Input struct {
	Intent             *domain.Intent
	TenantID           uuid.UUID
	UserID             uuid.UUID
	AutoExecuteEnabled bool
	// ForceExecute skips confidence and auto-execute gating after a human
	// approved the intent.
	ForceExecute bool
}
