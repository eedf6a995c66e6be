package inquiry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZdravkoRistic/qtotal/pkg/utils"
)

// PostgresRepo persists inquiry records in a single table.
//
// The confirmation claim relies on confirmed_meeting_time being NULL until
// the one successful booking writes it.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS inquiries (
    id                        UUID PRIMARY KEY,
    name                      TEXT NOT NULL,
    email                     TEXT NOT NULL,
    phone                     TEXT,
    message                   TEXT NOT NULL,
    created_at                TIMESTAMPTZ NOT NULL,
    status                    TEXT NOT NULL,
    service_type              TEXT,
    classification_confidence INT,
    classification_reasoning  TEXT,
    ai_generated_response     TEXT,
    proposed_meeting_times    JSONB,
    client_notified           BOOLEAN NOT NULL DEFAULT FALSE,
    admin_notified            BOOLEAN NOT NULL DEFAULT FALSE,
    client_message_id         TEXT,
    admin_message_id          TEXT,
    confirmed_meeting_time    TEXT,
    calendar_event_id         TEXT
)`

// EnsureSchema creates the inquiries table if it does not exist yet.
// Called at startup; a failure here is not fatal because the process can
// still serve degraded submissions.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaDDL)
	return err
}

const pingTimeout = 2 * time.Second

func (r *PostgresRepo) Ping(ctx context.Context) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	if err := utils.HealthCheck(ctx, r.db, pingTimeout); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *PostgresRepo) Create(ctx context.Context, rec *Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inquiries (id, name, email, phone, message, created_at, status)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`,
		rec.ID, rec.Name, rec.Email, rec.Phone, rec.Message, rec.CreatedAt, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("inquiry: insert failed: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` FROM inquiries WHERE id = $1`, id)
	return scanRecord(row)
}

func (r *PostgresRepo) SaveWorkflowResults(ctx context.Context, id string, res WorkflowResults) error {
	proposed, err := json.Marshal(res.Proposed)
	if err != nil {
		return fmt.Errorf("inquiry: encode proposed times: %w", err)
	}
	out, err := r.db.ExecContext(ctx, `
		UPDATE inquiries
		SET service_type = $1,
		    classification_confidence = $2,
		    classification_reasoning = $3,
		    ai_generated_response = $4,
		    proposed_meeting_times = $5
		WHERE id = $6`,
		res.ServiceType, res.Confidence, res.Reasoning, res.Response, proposed, id,
	)
	if err != nil {
		return fmt.Errorf("inquiry: update workflow results: %w", err)
	}
	return requireRow(out)
}

func (r *PostgresRepo) MarkClientNotified(ctx context.Context, id, messageID string) error {
	out, err := r.db.ExecContext(ctx, `
		UPDATE inquiries SET client_notified = TRUE, client_message_id = $1 WHERE id = $2`,
		messageID, id,
	)
	if err != nil {
		return fmt.Errorf("inquiry: mark client notified: %w", err)
	}
	return requireRow(out)
}

func (r *PostgresRepo) MarkAdminNotified(ctx context.Context, id, messageID string) error {
	out, err := r.db.ExecContext(ctx, `
		UPDATE inquiries SET admin_notified = TRUE, admin_message_id = $1 WHERE id = $2`,
		messageID, id,
	)
	if err != nil {
		return fmt.Errorf("inquiry: mark admin notified: %w", err)
	}
	return requireRow(out)
}

func (r *PostgresRepo) SetStatus(ctx context.Context, id string, status Status) error {
	out, err := r.db.ExecContext(ctx, `UPDATE inquiries SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("inquiry: set status: %w", err)
	}
	return requireRow(out)
}

// ConfirmBooking claims the confirmed meeting time with a conditional update
// so two near-simultaneous confirmations cannot both commit. The losing
// attempt sees zero affected rows and is told the record is already
// confirmed (or missing).
func (r *PostgresRepo) ConfirmBooking(ctx context.Context, id, meetingTime, calendarEventID string) error {
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		out, err := tx.ExecContext(ctx, `
			UPDATE inquiries
			SET confirmed_meeting_time = $1,
			    calendar_event_id = $2,
			    status = $3
			WHERE id = $4 AND confirmed_meeting_time IS NULL`,
			meetingTime, calendarEventID, StatusCompleted, id,
		)
		if err != nil {
			return fmt.Errorf("inquiry: confirm booking: %w", err)
		}
		n, err := out.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM inquiries WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyConfirmed
	})
}

func (r *PostgresRepo) List(ctx context.Context, offset, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		selectColumns+` FROM inquiries ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("inquiry: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const selectColumns = `
	SELECT id, name, email, COALESCE(phone, ''), message, created_at, status,
	       COALESCE(service_type, ''), COALESCE(classification_confidence, 0),
	       COALESCE(classification_reasoning, ''), COALESCE(ai_generated_response, ''),
	       proposed_meeting_times, client_notified, admin_notified,
	       COALESCE(client_message_id, ''), COALESCE(admin_message_id, ''),
	       COALESCE(confirmed_meeting_time, ''), COALESCE(calendar_event_id, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var proposed []byte
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.Message, &rec.CreatedAt, &rec.Status,
		&rec.ServiceType, &rec.ClassificationConfidence,
		&rec.ClassificationReasoning, &rec.AIGeneratedResponse,
		&proposed, &rec.ClientNotified, &rec.AdminNotified,
		&rec.ClientMessageID, &rec.AdminMessageID,
		&rec.ConfirmedMeetingTime, &rec.CalendarEventID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("inquiry: scan: %w", err)
	}
	if len(proposed) > 0 {
		if err := json.Unmarshal(proposed, &rec.ProposedMeetingTimes); err != nil {
			return Record{}, fmt.Errorf("inquiry: decode proposed times: %w", err)
		}
	}
	return rec, nil
}

func requireRow(out sql.Result) error {
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
