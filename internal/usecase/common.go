package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/logger"
	"employee-onboarding-backend/pkg/validation"
)

// currentActor returns the authenticated caller or a 401
func currentActor(ctx context.Context) (domain.Actor, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, apperror.Unauthorized("User not authenticated")
	}
	return actor, nil
}

// requireAdmin returns the caller when they hold the admin role
func requireAdmin(ctx context.Context) (domain.Actor, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return actor, err
	}
	if !actor.IsAdmin() {
		return actor, apperror.Forbidden("Admin access required")
	}
	return actor, nil
}

// validationError wraps validator output as a 400 with per-field messages
func validationError(err error) error {
	return apperror.BadRequest("Validation failed").WithDetails(validation.FormatValidationErrors(err))
}

// repoError maps repository sentinels onto API errors; anything else is a 500
func repoError(err error, what string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(what + " not found")
	case errors.Is(err, domain.ErrStatusConflict):
		return apperror.Conflict(what + " was modified by another request, reload and try again")
	case errors.Is(err, domain.ErrAlreadyExists):
		return apperror.Conflict(what + " already exists")
	default:
		return apperror.Internal(fmt.Errorf("%s: %w", what, err))
	}
}

// detached runs best-effort side effects that must not be cut short by the
// request context, bounded by their own timeout.
func detached(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Log.Warn("Best-effort operation failed", "operation", name, "error", err)
	}
}
