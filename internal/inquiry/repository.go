package inquiry

import "context"

// Repository is the persistence contract for inquiry records.
//
// Implementations must provide read-modify-write atomicity per record id for
// ConfirmBooking: the confirmed meeting time is claimed with a conditional
// write ("set only if currently unset"), never read-then-write-without-guard.
type Repository interface {
	// Ping reports whether the store is reachable. Submissions check this
	// before starting the workflow so a dead store degrades the whole
	// submission instead of failing it halfway through.
	Ping(ctx context.Context) error

	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (Record, error)

	// SaveWorkflowResults persists classification, generated response and the
	// proposed meeting times after the AI step. Proposed times are written
	// exactly once and never re-derived.
	SaveWorkflowResults(ctx context.Context, id string, res WorkflowResults) error

	// MarkClientNotified / MarkAdminNotified record a successful send and its
	// delivery identifier.
	MarkClientNotified(ctx context.Context, id, messageID string) error
	MarkAdminNotified(ctx context.Context, id, messageID string) error

	SetStatus(ctx context.Context, id string, status Status) error

	// ConfirmBooking atomically claims the confirmed meeting time and marks
	// the record completed. Returns ErrAlreadyConfirmed if another attempt
	// already claimed it, ErrNotFound if the record does not exist.
	ConfirmBooking(ctx context.Context, id, meetingTime, calendarEventID string) error

	// List returns records newest-first for the admin surface.
	List(ctx context.Context, offset, limit int) ([]Record, error)
}

// WorkflowResults bundles the outputs of the classification / generation /
// slot-proposal step.
type WorkflowResults struct {
	ServiceType string
	Confidence  int
	Reasoning   string
	Response    string
	Proposed    []string
}
