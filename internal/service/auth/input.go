package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// IssueTokenInput holds the parameters for issuing a device token.
type IssueTokenInput struct {
	UserID uuid.UUID
	Name   string
	// Scopes defaults to the required voice scope.
	Scopes []string
	// TTL defaults to the configured device token lifetime.
	TTL time.Duration
}

// Validate checks all fields and collects all errors.
func (i IssueTokenInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if len(strings.TrimSpace(i.Name)) > 100 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 100 characters"})
	}
	for _, scope := range i.Scopes {
		if strings.TrimSpace(scope) == "" {
			errs = append(errs, domain.FieldError{Field: "scopes", Message: "must not contain empty values"})
			break
		}
	}
	if i.TTL < 0 {
		errs = append(errs, domain.FieldError{Field: "ttl", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
