package inquiry

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local development.
// It enforces the same write-once confirmation semantics as the Postgres
// implementation.

type MemoryRepo struct {
	mu   sync.Mutex
	recs map[string]Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{recs: make(map[string]Record)}
}

func (r *MemoryRepo) Ping(ctx context.Context) error { return nil }

func (r *MemoryRepo) Create(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs[rec.ID] = cloneRecord(*rec)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *MemoryRepo) SaveWorkflowResults(ctx context.Context, id string, res WorkflowResults) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.ServiceType = res.ServiceType
	rec.ClassificationConfidence = res.Confidence
	rec.ClassificationReasoning = res.Reasoning
	rec.AIGeneratedResponse = res.Response
	rec.ProposedMeetingTimes = append([]string(nil), res.Proposed...)
	r.recs[id] = rec
	return nil
}

func (r *MemoryRepo) MarkClientNotified(ctx context.Context, id, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.ClientNotified = true
	rec.ClientMessageID = messageID
	r.recs[id] = rec
	return nil
}

func (r *MemoryRepo) MarkAdminNotified(ctx context.Context, id, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.AdminNotified = true
	rec.AdminMessageID = messageID
	r.recs[id] = rec
	return nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	r.recs[id] = rec
	return nil
}

func (r *MemoryRepo) ConfirmBooking(ctx context.Context, id, meetingTime, calendarEventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return ErrNotFound
	}
	if rec.ConfirmedMeetingTime != "" {
		return ErrAlreadyConfirmed
	}
	rec.ConfirmedMeetingTime = meetingTime
	rec.CalendarEventID = calendarEventID
	rec.Status = StatusCompleted
	r.recs[id] = rec
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, offset, limit int) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0, len(r.recs))
	for _, rec := range r.recs {
		out = append(out, cloneRecord(rec))
	}
	sortByCreatedDesc(out)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func cloneRecord(rec Record) Record {
	rec.ProposedMeetingTimes = append([]string(nil), rec.ProposedMeetingTimes...)
	return rec
}

func sortByCreatedDesc(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}
