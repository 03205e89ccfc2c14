package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/logger"
	"employee-onboarding-backend/pkg/security"
)

type adminUsecase struct {
	appRepo   domain.ApplicationRepository
	docRepo   domain.DocumentRepository
	auditRepo domain.AuditRepository
	files     domain.FileStorage
	mailer    domain.Mailer
	settings  StorageSettings
	portalURL string
	secLog    *security.SecurityLogger
	now       func() time.Time
}

func NewAdminUsecase(
	appRepo domain.ApplicationRepository,
	docRepo domain.DocumentRepository,
	auditRepo domain.AuditRepository,
	files domain.FileStorage,
	mailer domain.Mailer,
	settings StorageSettings,
	portalURL string,
	secLog *security.SecurityLogger,
) domain.AdminUsecase {
	return &adminUsecase{
		appRepo:   appRepo,
		docRepo:   docRepo,
		auditRepo: auditRepo,
		files:     files,
		mailer:    mailer,
		settings:  settings,
		portalURL: portalURL,
		secLog:    secLog,
		now:       time.Now,
	}
}

// ListApplications filters, sorts and paginates every application in memory
func (u *adminUsecase) ListApplications(ctx context.Context, q domain.ApplicationQuery) (*domain.PaginatedResult[domain.Application], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	q.Normalize()

	apps, err := u.appRepo.ListAll(ctx)
	if err != nil {
		return nil, repoError(err, "Applications")
	}
	return Paginate(FilterApplications(apps, q), q.Page, q.PageSize), nil
}

func (u *adminUsecase) GetApplication(ctx context.Context, id string) (*domain.ApplicationDetailResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Application")
	}
	docs, err := u.docRepo.ListByApplication(ctx, id)
	if err != nil {
		return nil, repoError(err, "Documents")
	}
	audit, err := u.auditRepo.ListByApplication(ctx, id)
	if err != nil {
		return nil, repoError(err, "Audit log")
	}
	return &domain.ApplicationDetailResponse{Application: app, Documents: docs, AuditLog: audit}, nil
}

// decision is one admin status change and the rows written with it
type decision struct {
	to             domain.ApplicationStatus
	action         string
	event          string
	reason         string
	reasonRequired bool
	stampReviewer  bool
	notifyTitle    string
	notifyMessage  string
	notifyType     string
}

func (u *adminUsecase) StartReview(ctx context.Context, id string) (*domain.Application, error) {
	return u.transition(ctx, id, decision{
		to:            domain.ApplicationStatusUnderReview,
		action:        domain.ActionStartReview,
		event:         domain.EventReviewStarted,
		notifyTitle:   "Application under review",
		notifyMessage: "An administrator has started reviewing your application.",
		notifyType:    domain.NotificationTypeInfo,
	})
}

func (u *adminUsecase) RequestDocuments(ctx context.Context, id, reason string) (*domain.Application, error) {
	return u.transition(ctx, id, decision{
		to:             domain.ApplicationStatusDocumentsPending,
		action:         domain.ActionRequestDocuments,
		event:          domain.EventDocumentsRequested,
		reason:         reason,
		reasonRequired: true,
		notifyTitle:    "Documents required",
		notifyMessage:  "Please upload the requested documents: %s",
		notifyType:     domain.NotificationTypeWarning,
	})
}

func (u *adminUsecase) Approve(ctx context.Context, id, note string) (*domain.Application, error) {
	return u.transition(ctx, id, decision{
		to:            domain.ApplicationStatusAccepted,
		action:        domain.ActionApprove,
		event:         domain.EventAccepted,
		reason:        note,
		stampReviewer: true,
		notifyTitle:   "Application accepted",
		notifyMessage: "Congratulations, your application has been accepted.",
		notifyType:    domain.NotificationTypeSuccess,
	})
}

func (u *adminUsecase) Reject(ctx context.Context, id, reason string) (*domain.Application, error) {
	return u.transition(ctx, id, decision{
		to:             domain.ApplicationStatusRejected,
		action:         domain.ActionReject,
		event:          domain.EventRejected,
		reason:         reason,
		reasonRequired: true,
		stampReviewer:  true,
		notifyTitle:    "Application rejected",
		notifyMessage:  "Your application was rejected. Reason: %s",
		notifyType:     domain.NotificationTypeError,
	})
}

func (u *adminUsecase) Complete(ctx context.Context, id string) (*domain.Application, error) {
	return u.transition(ctx, id, decision{
		to:            domain.ApplicationStatusCompleted,
		action:        domain.ActionComplete,
		event:         domain.EventCompleted,
		notifyTitle:   "Onboarding complete",
		notifyMessage: "Your onboarding is complete. Welcome aboard!",
		notifyType:    domain.NotificationTypeSuccess,
	})
}

// transition checks the workflow, then writes the status change together
// with its audit, timeline and notification rows. The email goes out after
// the commit and never fails the request.
func (u *adminUsecase) transition(ctx context.Context, id string, d decision) (*domain.Application, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(d.reason)
	if d.reasonRequired && reason == "" {
		return nil, apperror.BadRequest("A reason is required")
	}

	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Application")
	}
	from := app.Status
	if !from.CanTransitionTo(d.to) {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot move application from %s to %s", from, d.to))
	}

	now := u.now()
	details, err := json.Marshal(map[string]string{
		"from":   string(from),
		"to":     string(d.to),
		"reason": reason,
	})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("encode audit details: %w", err))
	}

	message := d.notifyMessage
	if strings.Contains(message, "%s") {
		message = fmt.Sprintf(message, reason)
	}

	t := domain.StatusTransition{
		ApplicationID: app.ID,
		From:          from,
		To:            d.to,
		At:            now,
		Audit: &domain.AdminAction{
			AdminID:       actor.UserID,
			ApplicationID: &app.ID,
			ActionType:    d.action,
			Details:       details,
		},
		Activity: &domain.ActivityLog{
			ApplicationID: app.ID,
			ActorID:       actor.UserID,
			Event:         d.event,
			Description:   describeTransition(from, d.to, reason),
		},
		Notification: &domain.Notification{
			UserID:  app.UserID,
			Title:   d.notifyTitle,
			Message: message,
			Type:    d.notifyType,
		},
	}
	if d.stampReviewer {
		t.ReviewedBy = &actor.UserID
	}
	if d.to == domain.ApplicationStatusRejected {
		t.RejectionReason = &reason
	}

	if err := u.appRepo.Transition(ctx, t); err != nil {
		return nil, repoError(err, "Application")
	}

	app.Status = d.to
	app.UpdatedAt = now
	app.RejectionReason = t.RejectionReason
	if d.stampReviewer {
		app.ReviewedBy = &actor.UserID
		app.ReviewedAt = &now
	}

	logger.Log.Info("Application status changed",
		"application_id", app.ID, "from", from, "to", d.to, "admin_id", actor.UserID)

	u.sendStatusEmail(ctx, app, reason)
	return app, nil
}

func describeTransition(from, to domain.ApplicationStatus, reason string) string {
	desc := fmt.Sprintf("Status changed from %s to %s", from, to)
	if reason != "" {
		desc += ": " + reason
	}
	return desc
}

func (u *adminUsecase) sendStatusEmail(ctx context.Context, app *domain.Application, reason string) {
	if u.mailer == nil {
		return
	}
	to := app.DisplayEmail()
	if to == "" {
		return
	}
	detached(ctx, 15*time.Second, "status email", func(ctx context.Context) error {
		return u.mailer.SendStatusUpdate(ctx, domain.StatusEmail{
			To:            to,
			CandidateName: app.DisplayName(),
			ApplicationID: app.ID,
			Status:        app.Status,
			Reason:        reason,
			PortalURL:     u.portalURL,
		})
	})
}

// DeleteApplication removes the application, its document rows and its
// stored files. Rows go first so a storage failure leaves only orphaned
// objects, which are logged.
func (u *adminUsecase) DeleteApplication(ctx context.Context, id string) error {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return err
	}

	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "Application")
	}
	docs, err := u.docRepo.ListByApplication(ctx, id)
	if err != nil {
		return repoError(err, "Documents")
	}

	details, err := json.Marshal(map[string]interface{}{
		"user_id":        app.UserID,
		"status":         app.Status,
		"document_count": len(docs),
	})
	if err != nil {
		return apperror.Internal(fmt.Errorf("encode audit details: %w", err))
	}
	audit := &domain.AdminAction{
		AdminID:       actor.UserID,
		ApplicationID: &app.ID,
		ActionType:    domain.ActionDeleteApplication,
		Details:       details,
	}
	if err := u.appRepo.Delete(ctx, id, audit); err != nil {
		return repoError(err, "Application")
	}

	if len(docs) > 0 {
		paths := make([]string, 0, len(docs))
		for _, d := range docs {
			paths = append(paths, d.StoragePath)
		}
		detached(ctx, 30*time.Second, "delete application files", func(ctx context.Context) error {
			return u.files.Delete(ctx, u.settings.DocumentsBucket, paths...)
		})
	}

	u.secLog.Log(ctx, security.SecurityEvent{
		Event:        security.EventApplicationDeleted,
		SubjectType:  "user_id",
		SubjectValue: security.HashValue(actor.UserID),
		Details:      map[string]interface{}{"application_id": id, "documents": len(docs)},
	})
	return nil
}
