package voice

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

const (
	defaultMaxTextLength = 2000
	maxLocaleLength      = 16
	maxHints             = 20
	maxHintKeyLength     = 64
	maxHintValueLength   = 500
	maxListLimit         = 100
)

var idempotencyKeyRe = regexp.MustCompile(`^[A-Za-z0-9._:-]{8,160}$`)

// CaptureInput holds the parameters for capturing a voice command.
type CaptureInput struct {
	Credential     string
	Text           string
	IdempotencyKey string
	Source         domain.CommandSource
	Locale         *string
	Hints          map[string]string
}

// Validate checks all fields and collects all errors. maxText is the
// maximum command length in characters.
func (i CaptureInput) Validate(maxText int) error {
	var errs []domain.FieldError

	errs = append(errs, validateText("text", i.Text, maxText)...)

	if !idempotencyKeyRe.MatchString(i.IdempotencyKey) {
		errs = append(errs, domain.FieldError{
			Field:   "idempotency_key",
			Message: "must be 8-160 characters of letters, digits, '.', '_', ':' or '-'",
		})
	}

	if i.Source != "" && !i.Source.IsValid() {
		errs = append(errs, domain.FieldError{Field: "source", Message: "invalid value"})
	}

	if i.Locale != nil && utf8.RuneCountInString(strings.TrimSpace(*i.Locale)) > maxLocaleLength {
		errs = append(errs, domain.FieldError{Field: "locale", Message: "max 16 characters"})
	}

	if len(i.Hints) > maxHints {
		errs = append(errs, domain.FieldError{Field: "hints", Message: "max 20 entries"})
	}
	for k, v := range i.Hints {
		if k == "" || utf8.RuneCountInString(k) > maxHintKeyLength {
			errs = append(errs, domain.FieldError{Field: "hints", Message: "keys must be 1-64 characters"})
			break
		}
		if utf8.RuneCountInString(v) > maxHintValueLength {
			errs = append(errs, domain.FieldError{Field: "hints." + k, Message: "max 500 characters"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ConfirmInput holds the parameters for confirming an entry. A non-nil
// EditedText replaces the captured text and forces re-interpretation.
type ConfirmInput struct {
	Credential string
	EntryID    uuid.UUID
	EditedText *string
}

// Validate checks all fields and collects all errors.
func (i ConfirmInput) Validate(maxText int) error {
	return validateReentry(i.EntryID, i.EditedText, maxText)
}

// RetryInput holds the parameters for retrying an entry without force.
type RetryInput struct {
	Credential string
	EntryID    uuid.UUID
	EditedText *string
}

// Validate checks all fields and collects all errors.
func (i RetryInput) Validate(maxText int) error {
	return validateReentry(i.EntryID, i.EditedText, maxText)
}

// DiscardInput holds the parameters for discarding an entry.
type DiscardInput struct {
	Credential string
	EntryID    uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DiscardInput) Validate() error {
	if i.EntryID == uuid.Nil {
		return domain.NewValidationError("entry_id", "required")
	}
	return nil
}

// ListInput holds the parameters for listing the caller's entries.
type ListInput struct {
	Credential string
	Status     *domain.InboxStatus
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "invalid value"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > maxListLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 100"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateReentry(entryID uuid.UUID, editedText *string, maxText int) error {
	var errs []domain.FieldError
	if entryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "required"})
	}
	if editedText != nil {
		errs = append(errs, validateText("edited_text", *editedText, maxText)...)
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateText(field, text string, maxText int) []domain.FieldError {
	if maxText <= 0 {
		maxText = defaultMaxTextLength
	}
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	switch {
	case n == 0:
		return []domain.FieldError{{Field: field, Message: "required"}}
	case n > maxText:
		return []domain.FieldError{{Field: field, Message: "too long"}}
	}
	return nil
}
