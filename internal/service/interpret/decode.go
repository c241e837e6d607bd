package interpret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/voicecommand-backend/internal/domain"
)

// wireIntent is the v1 intent document.
type wireIntent struct {
	Version         string           `json:"version"`
	Action          string           `json:"action"`
	Summary         string           `json:"summary"`
	Confidence      float64          `json:"confidence"`
	ConfidenceLevel string           `json:"confidenceLevel,omitempty"`
	Task            *wireTask        `json:"task,omitempty"`
	Appointment     *wireAppointment `json:"appointment,omitempty"`
}

type wireTask struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	ProjectHint *string `json:"projectHint"`
}

type wireAppointment struct {
	Title           *string `json:"title"`
	CustomerName    *string `json:"customerName"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes *int    `json:"durationMinutes"`
	Type            string  `json:"type"`
}

// Decode validates a stored or freshly produced intent document and builds
// the intent from it. Every failure is a *domain.ParseError.
func (s *Service) Decode(raw json.RawMessage) (*domain.Intent, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, domain.NewParseError("intent document is empty", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.NewParseError("intent is not valid JSON", err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, domain.NewParseError("intent does not match schema "+domain.IntentVersionV1, err)
	}

	var w wireIntent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, domain.NewParseError("intent is not valid JSON", err)
	}

	level := s.thresholds.Level(w.Confidence)
	if w.ConfidenceLevel != "" && domain.ConfidenceLevel(w.ConfidenceLevel) != level {
		return nil, domain.NewParseError(fmt.Sprintf(
			"confidenceLevel %q is inconsistent with confidence %.2f", w.ConfidenceLevel, w.Confidence), nil)
	}

	intent := &domain.Intent{
		Version:         w.Version,
		Action:          domain.IntentAction(w.Action),
		Summary:         strings.TrimSpace(w.Summary),
		Confidence:      w.Confidence,
		ConfidenceLevel: level,
	}

	switch intent.Action {
	case domain.IntentActionCreateTask:
		p, err := taskPayload(w.Task)
		if err != nil {
			return nil, err
		}
		intent.Payload = p
	case domain.IntentActionCreateAppointment:
		p, err := appointmentPayload(w.Appointment)
		if err != nil {
			return nil, err
		}
		intent.Payload = p
	default:
		return nil, domain.NewParseError(fmt.Sprintf("unknown action %q", w.Action), nil)
	}

	return intent, nil
}

func taskPayload(w *wireTask) (domain.TaskPayload, error) {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return domain.TaskPayload{}, domain.NewParseError("task title is blank", nil)
	}

	priority := domain.TaskPriority(w.Priority)
	if priority == "" {
		priority = domain.TaskPriorityNormal
	}

	if w.DueDate != nil {
		if _, err := time.Parse(time.DateOnly, *w.DueDate); err != nil {
			return domain.TaskPayload{}, domain.NewParseError(fmt.Sprintf("task dueDate %q is not a calendar date", *w.DueDate), err)
		}
	}

	return domain.TaskPayload{
		Title:       title,
		Description: trimOrNil(w.Description),
		Priority:    priority,
		DueDate:     w.DueDate,
		ProjectHint: trimOrNil(w.ProjectHint),
	}, nil
}

func appointmentPayload(w *wireAppointment) (domain.AppointmentPayload, error) {
	if _, err := time.Parse(time.DateOnly, w.Date); err != nil {
		return domain.AppointmentPayload{}, domain.NewParseError(fmt.Sprintf("appointment date %q is not a calendar date", w.Date), err)
	}

	kind := domain.AppointmentType(w.Type)
	if kind == "" {
		kind = domain.AppointmentTypeOther
	}

	return domain.AppointmentPayload{
		Title:           trimOrNil(w.Title),
		CustomerName:    trimOrNil(w.CustomerName),
		Date:            w.Date,
		Time:            w.Time,
		DurationMinutes: w.DurationMinutes,
		Type:            kind,
	}, nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
