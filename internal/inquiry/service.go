package inquiry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ZdravkoRistic/qtotal/internal/schedule"
)

// Classification is the outcome of the language-model classification step.
type Classification struct {
	ServiceType string
	Confidence  int
	Reasoning   string
}

// Assistant is the language-model capability: classify an inquiry and draft a
// personalized reply. Both calls may fail; the orchestrator recovers with
// fixed fallbacks and never blocks the pipeline on them.
type Assistant interface {
	Classify(ctx context.Context, message string) (Classification, error)
	GenerateReply(ctx context.Context, name, message, serviceType string) (string, error)
}

// Notifier delivers the client reply (with per-slot confirmation links) and
// the admin alert. Each send reports a delivery identifier.
type Notifier interface {
	SendClientReply(ctx context.Context, rec Record) (messageID string, err error)
	SendAdminAlert(ctx context.Context, rec Record) (messageID string, err error)
}

// BookingRequest identifies the client and the chosen meeting-time label.
type BookingRequest struct {
	InquiryID   string
	ClientName  string
	ClientEmail string
	MeetingTime string
}

// Booking is a successfully created calendar event.
type Booking struct {
	EventID   string
	EventLink string
	StartTime time.Time
	EndTime   time.Time
}

/// Booker is the calendar capability: parse the meeting-time label back into a
// timestamp, create the event and invite the client.
type Booker interface {
	Book(ctx context.Context, req BookingRequest) (Booking, error)
}

// Locker serializes confirmation attempts per record id across processes.
/// It is advisory: the repository's conditional write remains the final guard.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Fallbacks applied when the assistant is unavailable. Classification degrades
// to Unknown/0; the reply degrades to a canned acknowledgment.
const fallbackServiceType = "Unknown"
const fallbackReasoning = "AI servis trenutno nije dostupan"

func fallbackReply(name string) string {
	return fmt.Sprintf(
		"Poštovani/a %s,\n\nHvala što ste nas kontaktirali. Primili smo vašu poruku i javićemo vam se u najkraćem mogućem roku.\n\nSrdačan pozdrav,\nQ-Total Tim",
		name,
	)
}

// Options tunes the orchestrator. Zero values get safe defaults.
type Options struct {
	Locker       Locker
	Logger       *slog.Logger
	Clock        func() time.Time
	ProposeTimes func(now time.Time) []string
	AITimeout    time.Duration
	BookTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	out := o
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.Clock == nil {
		out.Clock = time.Now
	}
	if out.ProposeTimes == nil {
		out.ProposeTimes = schedule.ProposeMeetingTimes
	}
	if out.AITimeout <= 0 {
		out.AITimeout = 15 * time.Second
	}
	if out.BookTimeout <= 0 {
		out.BookTimeout = 10 * time.Second
	}
	return out
}

// Service drives an inquiry record through classification, notification and
// confirmation. It is the only component that mutates records.
type Service struct {
	repo      Repository
	assistant Assistant
	notifier  Notifier
	booker    Booker

	locks       Locker
	log         *slog.Logger
	clock       func() time.Time
	propose     func(now time.Time) []string
	aiTimeout   time.Duration
	bookTimeout time.Duration
}

func NewService(repo Repository, assistant Assistant, notifier Notifier, booker Booker, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		repo:        repo,
		assistant:   assistant,
		notifier:    notifier,
		booker:      booker,
		locks:       opts.Locker,
		log:         opts.Logger,
		clock:       opts.Clock,
		propose:     opts.ProposeTimes,
		aiTimeout:   opts.AITimeout,
		bookTimeout: opts.BookTimeout,
	}
}

// SubmitInquiry runs the submission workflow. Classification, generation and
// both email sends are best-effort: their failures are logged and recovered
// locally. Only store unavailability (ErrStoreUnavailable) and unexpected
// persistence errors surface to the caller.
func (s *Service) SubmitInquiry(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return SubmitResult{}, ErrInvalidArgument
	}
	if s.repo == nil {
		return SubmitResult{}, ErrStoreUnavailable
	}
	if err := s.repo.Ping(ctx); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := s.clock()
	rec := &Record{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: now.UTC(),
		Status:    StatusProcessing,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	log := s.log.With("inquiry_id", rec.ID)
	log.Info("inquiry created", "email", rec.Email)

	results := s.runAssistant(ctx, log, req)
	results.Proposed = s.propose(now)

	if err := s.repo.SaveWorkflowResults(ctx, rec.ID, results); err != nil {
		return SubmitResult{}, fmt.Errorf("inquiry: persist workflow results: %w", err)
	}
	rec.ServiceType = results.ServiceType
	rec.ClassificationConfidence = results.Confidence
	rec.ClassificationReasoning = results.Reasoning
	rec.AIGeneratedResponse = results.Response
	rec.ProposedMeetingTimes = results.Proposed

	if s.notifier != nil {
		if msgID, err := s.notifier.SendClientReply(ctx, *rec); err != nil {
			log.Warn("client email failed", "err", err)
		} else if err := s.repo.MarkClientNotified(ctx, rec.ID, msgID); err != nil {
			log.Error("mark client notified failed", "err", err)
		} else {
			rec.ClientNotified = true
			rec.ClientMessageID = msgID
		}

		// Admin notification is independent of the client send outcome.
		if msgID, err := s.notifier.SendAdminAlert(ctx, *rec); err != nil {
			log.Warn("admin email failed", "err", err)
		} else if err := s.repo.MarkAdminNotified(ctx, rec.ID, msgID); err != nil {
			log.Error("mark admin notified failed", "err", err)
		} else {
			rec.AdminNotified = true
			rec.AdminMessageID = msgID
		}
	}

	// email_sent means "workflow processed", not "all email delivered".
	if err := s.repo.SetStatus(ctx, rec.ID, StatusEmailSent); err != nil {
		return SubmitResult{}, fmt.Errorf("inquiry: finalize status: %w", err)
	}

	log.Info("inquiry processed",
		"service_type", rec.ServiceType,
		"client_notified", rec.ClientNotified,
		"admin_notified", rec.AdminNotified,
	)
	return SubmitResult{
		ID:          rec.ID,
		Status:      StatusEmailSent,
		ServiceType: rec.ServiceType,
		EmailSent:   rec.ClientNotified,
	}, nil
}

func (s *Service) runAssistant(ctx context.Context, log *slog.Logger, req SubmitRequest) WorkflowResults {
	var out WorkflowResults
	if s.assistant == nil {
		out.ServiceType = fallbackServiceType
		out.Reasoning = fallbackReasoning
		out.Response = fallbackReply(req.Name)
		return out
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	cls, err := s.assistant.Classify(aiCtx, req.Message)
	if err != nil {
		log.Warn("classification failed, using fallback", "err", err)
		cls = Classification{ServiceType: fallbackServiceType, Confidence: 0, Reasoning: fallbackReasoning}
	}
	out.ServiceType = cls.ServiceType
	out.Confidence = cls.Confidence
	out.Reasoning = cls.Reasoning

	reply, err := s.assistant.GenerateReply(aiCtx, req.Name, req.Message, cls.ServiceType)
	if err != nil {
		log.Warn("reply generation failed, using fallback", "err", err)
		reply = fallbackReply(req.Name)
	}
	out.Response = reply
	return out
}

const confirmLockTTL = 30 * time.Second

// ConfirmMeeting finalizes a booking for the slot at timeIndex. Outcomes are
// reported in ConfirmResult; the error return is reserved for unexpected
// store failures. A negative timeIndex is an invalid slot (the HTTP layer
// maps non-numeric values to -1 after the record checks, per the protocol
// precondition order).
func (s *Service) ConfirmMeeting(ctx context.Context, id string, timeIndex int) (ConfirmResult, error) {
	if s.locks != nil {
		key := "inquiry:confirm:" + id
		ok, err := s.locks.Acquire(ctx, key, confirmLockTTL)
		if err != nil {
			// Lock service down: fall through, the conditional write still guards.
			s.log.Warn("confirmation lock unavailable", "inquiry_id", id, "err", err)
		} else if !ok {
			return ConfirmResult{
				Outcome: OutcomeBookingFailed,
				Reason:  "confirmation already in progress",
			}, nil
		} else {
			defer func() {
				if err := s.locks.Release(context.WithoutCancel(ctx), key); err != nil {
					s.log.Warn("confirmation lock release failed", "inquiry_id", id, "err", err)
				}
			}()
		}
	}

	rec, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ConfirmResult{Outcome: OutcomeNotFound}, nil
	}
	if err != nil {
		return ConfirmResult{}, err
	}

	// Idempotent no-op: echo the existing choice, never re-book.
	if rec.ConfirmedMeetingTime != "" {
		return ConfirmResult{
			Outcome:     OutcomeAlreadyConfirmed,
			ClientName:  rec.Name,
			MeetingTime: rec.ConfirmedMeetingTime,
			EventID:     rec.CalendarEventID,
		}, nil
	}

	if timeIndex < 0 || timeIndex >= len(rec.ProposedMeetingTimes) {
		return ConfirmResult{Outcome: OutcomeInvalidSlot, ClientName: rec.Name}, nil
	}
	meetingTime := rec.ProposedMeetingTimes[timeIndex]

	if s.booker == nil {
		return ConfirmResult{
			Outcome:     OutcomeBookingFailed,
			ClientName:  rec.Name,
			MeetingTime: meetingTime,
			Reason:      "calendar is not configured",
		}, nil
	}

	bookCtx, cancel := context.WithTimeout(ctx, s.bookTimeout)
	defer cancel()
	booking, err := s.booker.Book(bookCtx, BookingRequest{
		InquiryID:   rec.ID,
		ClientName:  rec.Name,
		ClientEmail: rec.Email,
		MeetingTime: meetingTime,
	})
	if err != nil {
		// The chosen time is reported for display but deliberately not
		// persisted: the record stays short of terminal state so the booking
		// can be retried or handled manually.
		s.log.Error("calendar booking failed", "inquiry_id", rec.ID, "err", err)
		return ConfirmResult{
			Outcome:     OutcomeBookingFailed,
			ClientName:  rec.Name,
			MeetingTime: meetingTime,
			Reason:      err.Error(),
		}, nil
	}

	err = s.repo.ConfirmBooking(ctx, rec.ID, meetingTime, booking.EventID)
	if errors.Is(err, ErrAlreadyConfirmed) {
		// Lost a race with a concurrent confirmation; report that choice.
		prev, gerr := s.repo.Get(ctx, rec.ID)
		if gerr != nil {
			return ConfirmResult{}, gerr
		}
		return ConfirmResult{
			Outcome:     OutcomeAlreadyConfirmed,
			ClientName:  prev.Name,
			MeetingTime: prev.ConfirmedMeetingTime,
			EventID:     prev.CalendarEventID,
		}, nil
	}
	if err != nil {
		return ConfirmResult{}, err
	}

	s.log.Info("meeting booked", "inquiry_id", rec.ID, "event_id", booking.EventID, "meeting_time", meetingTime)
	return ConfirmResult{
		Outcome:     OutcomeBooked,
		ClientName:  rec.Name,
		MeetingTime: meetingTime,
		EventID:     booking.EventID,
	}, nil
}

// Get returns a single record for the admin surface.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns records newest-first for the admin surface.
func (s *Service) List(ctx context.Context, offset, limit int) ([]Record, error) {
	return s.repo.List(ctx, offset, limit)
}
