package usecase

import (
	"context"
	"strings"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/security"

	"github.com/go-playground/validator/v10"
)

type applicationUsecase struct {
	appRepo      domain.ApplicationRepository
	docRepo      domain.DocumentRepository
	activityRepo domain.ActivityRepository
	auditRepo    domain.AuditRepository
	validate     *validator.Validate
	secLog       *security.SecurityLogger
}

// NewApplicationUsecase creates the candidate-facing application workflow
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	docRepo domain.DocumentRepository,
	activityRepo domain.ActivityRepository,
	auditRepo domain.AuditRepository,
	validate *validator.Validate,
	secLog *security.SecurityLogger,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:      appRepo,
		docRepo:      docRepo,
		activityRepo: activityRepo,
		auditRepo:    auditRepo,
		validate:     validate,
		secLog:       secLog,
	}
}

// GetMyApplications returns the caller's applications, newest first
func (u *applicationUsecase) GetMyApplications(ctx context.Context) ([]domain.Application, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := u.appRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "Applications")
	}
	return apps, nil
}

// loadAccessible fetches an application the caller may read
func (u *applicationUsecase) loadAccessible(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Application")
	}
	if !actor.CanAccess(app.UserID) {
		u.secLog.LogAccessDenied(ctx, actor.UserID, "application", id)
		return nil, apperror.Forbidden("You can only access your own applications")
	}
	return app, nil
}

// loadOwnedDraft fetches an application the caller owns and may still edit
func (u *applicationUsecase) loadOwnedDraft(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Application")
	}
	if app.UserID != actor.UserID {
		u.secLog.LogAccessDenied(ctx, actor.UserID, "application", id)
		return nil, apperror.Forbidden("You can only edit your own applications")
	}
	if app.Status != domain.ApplicationStatusDraft {
		return nil, apperror.Conflict("Application has been submitted and can no longer be edited")
	}
	return app, nil
}

// GetApplicationDetail returns the application with its documents; admins also get the audit log
func (u *applicationUsecase) GetApplicationDetail(ctx context.Context, id string) (*domain.ApplicationDetailResponse, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	app, err := u.loadAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	docs, err := u.docRepo.ListByApplication(ctx, id)
	if err != nil {
		return nil, repoError(err, "Documents")
	}

	detail := &domain.ApplicationDetailResponse{Application: app, Documents: docs}
	if actor.IsAdmin() {
		audit, err := u.auditRepo.ListByApplication(ctx, id)
		if err != nil {
			return nil, repoError(err, "Audit log")
		}
		detail.AuditLog = audit
	}
	return detail, nil
}

// CreateDraft starts a new application; a candidate holds at most one draft
func (u *applicationUsecase) CreateDraft(ctx context.Context, input domain.ApplicationInput) (*domain.Application, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	existing, err := u.appRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "Applications")
	}
	for _, app := range existing {
		if app.Status == domain.ApplicationStatusDraft {
			return nil, apperror.Conflict("You already have a draft application (id " + app.ID + ")")
		}
	}

	app := &domain.Application{
		UserID: actor.UserID,
		Email:  actor.Email,
		Status: domain.ApplicationStatusDraft,
	}
	if err := input.ApplyTo(app); err != nil {
		return nil, apperror.BadRequest("Invalid date of birth")
	}

	activity := &domain.ActivityLog{
		ActorID:     actor.UserID,
		Event:       domain.EventCreated,
		Description: "Application draft created",
	}
	if err := u.appRepo.Create(ctx, app, activity); err != nil {
		return nil, repoError(err, "Draft application")
	}
	return app, nil
}

// UpdateDraft saves partial changes while the application is a draft
func (u *applicationUsecase) UpdateDraft(ctx context.Context, id string, input domain.ApplicationInput) (*domain.Application, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	app, err := u.loadOwnedDraft(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := input.ApplyTo(app); err != nil {
		return nil, apperror.BadRequest("Invalid date of birth")
	}

	if err := u.appRepo.UpdateFields(ctx, app); err != nil {
		return nil, repoError(err, "Application")
	}
	return app, nil
}

// Submit finalizes a draft. When input is given it is the complete form and
// is checked for format and completeness before the repository is touched;
// otherwise the stored draft must already be complete. Fields and the
// draft -> submitted flip are persisted in one transaction.
func (u *applicationUsecase) Submit(ctx context.Context, id string, input *domain.ApplicationInput) (*domain.Application, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	if input != nil {
		if err := u.validate.Struct(input); err != nil {
			return nil, validationError(err)
		}
		var form domain.Application
		if err := input.ApplyTo(&form); err != nil {
			return nil, apperror.BadRequest("Invalid date of birth")
		}
		if missing := form.MissingRequiredFields(); len(missing) > 0 {
			return nil, missingFieldsError(missing)
		}
	}

	app, err := u.loadOwnedDraft(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input != nil {
		_ = input.ApplyTo(app)
	}
	if missing := app.MissingRequiredFields(); len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	activity := &domain.ActivityLog{
		ApplicationID: app.ID,
		ActorID:       actor.UserID,
		Event:         domain.EventSubmitted,
		Description:   "Application submitted for review",
	}
	if err := u.appRepo.Submit(ctx, app, activity); err != nil {
		return nil, repoError(err, "Application")
	}
	return app, nil
}

// GetTimeline returns the activity history, oldest first
func (u *applicationUsecase) GetTimeline(ctx context.Context, id string) ([]domain.ActivityLog, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := u.loadAccessible(ctx, actor, id); err != nil {
		return nil, err
	}
	logs, err := u.activityRepo.ListByApplication(ctx, id)
	if err != nil {
		return nil, repoError(err, "Timeline")
	}
	return logs, nil
}

func missingFieldsError(missing []string) error {
	return apperror.BadRequest("Missing required fields: " + strings.Join(missing, ", ")).
		WithDetails(map[string][]string{"missing_fields": missing})
}
