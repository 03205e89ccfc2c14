package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"employee-onboarding-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationSelect = `
	SELECT
		a.id, a.user_id, a.post_applied, a.full_name, a.email, a.phone, a.date_of_birth,
		a.address, a.city, a.state, a.pincode, a.pan_number, a.aadhar_number,
		a.bank_account_number, a.ifsc_code, a.education, a.status, a.progress,
		a.submitted_at, a.reviewed_at, a.reviewed_by, a.rejection_reason,
		a.created_at, a.updated_at,
		p.full_name AS profile_name,
		p.email AS profile_email,
		(SELECT COUNT(*) FROM documents d WHERE d.application_id = a.id) AS document_count
	FROM applications a
	LEFT JOIN profiles p ON p.id = a.user_id`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app       domain.Application
		education []byte
		status    string
	)
	err := row.Scan(
		&app.ID, &app.UserID, &app.PostApplied, &app.FullName, &app.Email, &app.Phone, &app.DateOfBirth,
		&app.Address, &app.City, &app.State, &app.Pincode, &app.PANNumber, &app.AadharNumber,
		&app.BankAccountNumber, &app.IFSCCode, &education, &status, &app.Progress,
		&app.SubmittedAt, &app.ReviewedAt, &app.ReviewedBy, &app.RejectionReason,
		&app.CreatedAt, &app.UpdatedAt,
		&app.ProfileName, &app.ProfileEmail, &app.DocumentCount,
	)
	if err != nil {
		return nil, err
	}
	app.Status, _ = domain.ParseApplicationStatus(status)
	app.Education = []domain.EducationEntry{}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &app.Education); err != nil {
			return nil, fmt.Errorf("decode education for application %s: %w", app.ID, err)
		}
	}
	return &app, nil
}

func (r *applicationRepo) queryList(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

func educationJSON(app *domain.Application) (string, error) {
	if app.Education == nil {
		return "[]", nil
	}
	b, err := json.Marshal(app.Education)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a new draft together with its "created" timeline entry
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application, activity *domain.ActivityLog) error {
	education, err := educationJSON(app)
	if err != nil {
		return err
	}

	now := time.Now()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = domain.ApplicationStatusDraft
	}
	app.CreatedAt = now
	app.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO applications (
			id, user_id, post_applied, full_name, email, phone, date_of_birth,
			address, city, state, pincode, pan_number, aadhar_number,
			bank_account_number, ifsc_code, education, status, progress, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16::jsonb, $17, $18, $19, $20)`,
		app.ID, app.UserID, app.PostApplied, app.FullName, app.Email, app.Phone, app.DateOfBirth,
		app.Address, app.City, app.State, app.Pincode, app.PANNumber, app.AadharNumber,
		app.BankAccountNumber, app.IFSCCode, education, string(app.Status), app.Progress, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}

	if activity != nil {
		activity.ApplicationID = app.ID
		if err := insertActivity(ctx, tx, activity); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// GetByID retrieves an application by ID with joined profile data
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return app, nil
}

// GetByUserID retrieves all applications owned by a user, newest first
func (r *applicationRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Application, error) {
	return r.queryList(ctx, applicationSelect+` WHERE a.user_id = $1 ORDER BY a.created_at DESC`, userID)
}

// ListAll returns every application; filtering happens in memory
func (r *applicationRepo) ListAll(ctx context.Context) ([]domain.Application, error) {
	return r.queryList(ctx, applicationSelect+` ORDER BY a.created_at DESC`)
}

const updateFieldsSQL = `
	UPDATE applications SET
		post_applied = $2, full_name = $3, email = $4, phone = $5, date_of_birth = $6,
		address = $7, city = $8, state = $9, pincode = $10, pan_number = $11,
		aadhar_number = $12, bank_account_number = $13, ifsc_code = $14,
		education = $15::jsonb, updated_at = $16`

func fieldArgs(app *domain.Application, education string) []any {
	return []any{
		app.ID, app.PostApplied, app.FullName, app.Email, app.Phone, app.DateOfBirth,
		app.Address, app.City, app.State, app.Pincode, app.PANNumber,
		app.AadharNumber, app.BankAccountNumber, app.IFSCCode,
		education, app.UpdatedAt,
	}
}

// UpdateFields saves applicant fields of a draft
func (r *applicationRepo) UpdateFields(ctx context.Context, app *domain.Application) error {
	education, err := educationJSON(app)
	if err != nil {
		return err
	}
	app.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, updateFieldsSQL+` WHERE id = $1 AND status = 'draft'`, fieldArgs(app, education)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStatusConflict
	}
	return nil
}

// Submit saves the final fields and moves draft -> submitted in one transaction
func (r *applicationRepo) Submit(ctx context.Context, app *domain.Application, activity *domain.ActivityLog) error {
	education, err := educationJSON(app)
	if err != nil {
		return err
	}
	now := time.Now()
	app.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	args := append(fieldArgs(app, education), now)
	tag, err := tx.Exec(ctx, updateFieldsSQL+`, status = 'submitted', submitted_at = $17
		WHERE id = $1 AND status = 'draft'`, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStatusConflict
	}

	if err := insertActivity(ctx, tx, activity); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	app.Status = domain.ApplicationStatusSubmitted
	app.SubmittedAt = &now
	return nil
}

// Transition applies a guarded status change and its audit, timeline and
// notification rows atomically. The update only matches while the row is
// still in t.From.
func (r *applicationRepo) Transition(ctx context.Context, t domain.StatusTransition) error {
	if t.At.IsZero() {
		t.At = time.Now()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var reviewedAt *time.Time
	if t.ReviewedBy != nil {
		reviewedAt = &t.At
	}

	tag, err := tx.Exec(ctx, `
		UPDATE applications SET
			status = $3,
			reviewed_by = COALESCE($4::uuid, reviewed_by),
			reviewed_at = COALESCE($5::timestamptz, reviewed_at),
			rejection_reason = $6,
			updated_at = $7
		WHERE id = $1 AND status = $2`,
		t.ApplicationID, string(t.From), string(t.To), t.ReviewedBy, reviewedAt, t.RejectionReason, t.At)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStatusConflict
	}

	if err := insertAudit(ctx, tx, t.Audit); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	if err := insertActivity(ctx, tx, t.Activity); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	if err := insertNotification(ctx, tx, t.Notification); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *applicationRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	tag, err := r.db.Exec(ctx, `UPDATE applications SET progress = $2, updated_at = $3 WHERE id = $1`,
		id, progress, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the application; documents and timeline rows cascade
func (r *applicationRepo) Delete(ctx context.Context, id string, audit *domain.AdminAction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return tx.Commit(ctx)
}
