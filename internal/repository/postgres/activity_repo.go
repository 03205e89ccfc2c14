package postgres

import (
	"context"

	"employee-onboarding-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type activityRepo struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) domain.ActivityRepository {
	return &activityRepo{db: db}
}

// ListByApplication returns the timeline oldest first
func (r *activityRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.ActivityLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, application_id, actor_id, event, description, created_at
		FROM activity_logs
		WHERE application_id = $1
		ORDER BY created_at ASC`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []domain.ActivityLog{}
	for rows.Next() {
		var a domain.ActivityLog
		if err := rows.Scan(&a.ID, &a.ApplicationID, &a.ActorID, &a.Event, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

type auditRepo struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) domain.AuditRepository {
	return &auditRepo{db: db}
}

// ListByApplication returns admin actions newest first
func (r *auditRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.AdminAction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, application_id, action_type, details, created_at
		FROM admin_actions
		WHERE application_id = $1
		ORDER BY created_at DESC`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := []domain.AdminAction{}
	for rows.Next() {
		var (
			a       domain.AdminAction
			details []byte
		)
		if err := rows.Scan(&a.ID, &a.AdminID, &a.ApplicationID, &a.ActionType, &details, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Details = details
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
