package domain

// IntentVersionV1 is the only intent schema version currently produced.
const IntentVersionV1 = "v1"

// IntentAction is the business action an intent asks for.
type IntentAction string

const (
	IntentActionCreateTask        IntentAction = "create_task"
	IntentActionCreateAppointment IntentAction = "create_appointment"
)

func (a IntentAction) String() string { return string(a) }

func (a IntentAction) IsValid() bool {
	switch a {
	case IntentActionCreateTask, IntentActionCreateAppointment:
		return true
	}
	return false
}

// ConfidenceLevel is the discrete tier derived from a confidence score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

func (l ConfidenceLevel) String() string { return string(l) }

func (l ConfidenceLevel) IsValid() bool {
	switch l {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// ConfidenceThresholds maps a score in [0,1] to a ConfidenceLevel.
type ConfidenceThresholds struct {
	High   float64
	Medium float64
}

// DefaultConfidenceThresholds returns the stock tiers: high >= 0.8, medium >= 0.5.
func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{High: 0.8, Medium: 0.5}
}

// Level returns the tier for confidence.
func (t ConfidenceThresholds) Level(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= t.High:
		return ConfidenceHigh
	case confidence >= t.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// TaskPriority is the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) String() string { return string(p) }

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// AppointmentType is the kind of appointment to schedule.
type AppointmentType string

const (
	AppointmentTypeSiteVisit AppointmentType = "site_visit"
	AppointmentTypeMeeting   AppointmentType = "meeting"
	AppointmentTypeCall      AppointmentType = "call"
	AppointmentTypeOther     AppointmentType = "other"
)

func (t AppointmentType) String() string { return string(t) }

func (t AppointmentType) IsValid() bool {
	switch t {
	case AppointmentTypeSiteVisit, AppointmentTypeMeeting, AppointmentTypeCall, AppointmentTypeOther:
		return true
	}
	return false
}

// Intent is the validated, versioned result of interpreting a command.
type Intent struct {
	Version         string
	Action          IntentAction
	Summary         string
	Confidence      float64
	ConfidenceLevel ConfidenceLevel
	Payload         IntentPayload
}

// IntentPayload is the action-specific part of an intent.
// Implementations: TaskPayload, AppointmentPayload.
type IntentPayload interface {
	Action() IntentAction
	intentPayload()
}

// TaskPayload describes a task to create.
type TaskPayload struct {
	Title       string
	Description *string
	Priority    TaskPriority
	DueDate     *string // YYYY-MM-DD
	ProjectHint *string
}

func (TaskPayload) Action() IntentAction { return IntentActionCreateTask }
func (TaskPayload) intentPayload()       {}

// AppointmentPayload describes an appointment to schedule.
type AppointmentPayload struct {
	Title           *string
	CustomerName    *string
	Date            string // YYYY-MM-DD
	Time            string // HH:MM
	DurationMinutes *int
	Type            AppointmentType
}

func (AppointmentPayload) Action() IntentAction { return IntentActionCreateAppointment }
func (AppointmentPayload) intentPayload()       {}
