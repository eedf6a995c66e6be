package inquiry

import (
	"errors"
	"time"
)

// Status is the lifecycle position of an inquiry. Transitions are monotonic:
// processing -> email_sent -> completed. No other value is valid and a record
// never moves backwards.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusEmailSent  Status = "email_sent"
	StatusCompleted  Status = "completed"
)

// Record is the sole persistent entity: one contact-form submission and its
// evolving workflow state.
//
// Invariants:
// - Submitted fields (Name, Email, Phone, Message) are immutable after creation.
// - ProposedMeetingTimes is frozen once written; confirmation links address
//   slots by position in this sequence.
// - ConfirmedMeetingTime is write-once. CalendarEventID is set if and only if
//   Status == completed.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Status    Status    `json:"status"`

	ServiceType              string `json:"service_type,omitempty"`
	ClassificationConfidence int    `json:"classification_confidence"`
	ClassificationReasoning  string `json:"classification_reasoning,omitempty"`
	AIGeneratedResponse      string `json:"ai_generated_response,omitempty"`

	ProposedMeetingTimes []string `json:"proposed_meeting_times,omitempty"`

	ClientNotified  bool   `json:"client_notified"`
	AdminNotified   bool   `json:"admin_notified"`
	ClientMessageID string `json:"client_message_id,omitempty"`
	AdminMessageID  string `json:"admin_message_id,omitempty"`

	ConfirmedMeetingTime string `json:"confirmed_meeting_time,omitempty"`
	CalendarEventID      string `json:"calendar_event_id,omitempty"`
}

// SubmitRequest carries the raw contact-form fields.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// SubmitResult is what the calling surface needs to shape its acknowledgment.
type SubmitResult struct {
	ID          string `json:"id"`
	Status      Status `json:"status"`
	ServiceType string `json:"service_type"`
	EmailSent   bool   `json:"email_sent"`
}

// ConfirmOutcome enumerates the terminal outcomes of a confirmation attempt.
type ConfirmOutcome string

const (
	OutcomeBooked           ConfirmOutcome = "booked"
	OutcomeAlreadyConfirmed ConfirmOutcome = "already_confirmed"
	OutcomeNotFound         ConfirmOutcome = "not_found"
	OutcomeInvalidSlot      ConfirmOutcome = "invalid_slot"
	OutcomeBookingFailed    ConfirmOutcome = "booking_failed"
)

// ConfirmResult reports a confirmation attempt. MeetingTime is the label the
// client chose (or previously confirmed); on booking failure it is reported
// for display only and is NOT persisted.
type ConfirmResult struct {
	Outcome     ConfirmOutcome
	ClientName  string
	MeetingTime string
	EventID     string
	// Reason carries the underlying error text for OutcomeBookingFailed.
	Reason string
}

var (
	// ErrNotFound is returned when no record exists for an id.
	ErrNotFound = errors.New("inquiry: not found")
	// ErrAlreadyConfirmed is returned by conditional confirmation writes when
	// the record already carries a confirmed meeting time.
	ErrAlreadyConfirmed = errors.New("inquiry: already confirmed")
	// ErrInvalidArgument is returned for requests missing required fields.
	ErrInvalidArgument = errors.New("inquiry: invalid argument")
	// ErrStoreUnavailable signals that the durable store cannot be reached;
	// submissions degrade to an acknowledgment-only response.
	ErrStoreUnavailable = errors.New("inquiry: store unavailable")
)
