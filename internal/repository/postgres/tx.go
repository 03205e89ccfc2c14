package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"employee-onboarding-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const uniqueViolation = "23505"

// mapError converts driver errors into domain sentinels
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrAlreadyExists
	}
	return err
}

func insertActivity(ctx context.Context, db execer, a *domain.ActivityLog) error {
	if a == nil {
		return nil
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := db.Exec(ctx, `
		INSERT INTO activity_logs (id, application_id, actor_id, event, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.ApplicationID, a.ActorID, a.Event, a.Description, a.CreatedAt)
	return err
}

func insertAudit(ctx context.Context, db execer, a *domain.AdminAction) error {
	if a == nil {
		return nil
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	details := a.Details
	if len(details) == 0 {
		details = json.RawMessage(`{}`)
	}
	_, err := db.Exec(ctx, `
		INSERT INTO admin_actions (id, admin_id, application_id, action_type, details, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)`,
		a.ID, a.AdminID, a.ApplicationID, a.ActionType, string(details), a.CreatedAt)
	return err
}

func insertNotification(ctx context.Context, db execer, n *domain.Notification) error {
	if n == nil {
		return nil
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Type == "" {
		n.Type = domain.NotificationTypeInfo
	}
	_, err := db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.CreatedAt)
	return err
}
