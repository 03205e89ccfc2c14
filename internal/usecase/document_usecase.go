package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/logger"
	"employee-onboarding-backend/pkg/security"
	"employee-onboarding-backend/pkg/security/antivirus"
	"employee-onboarding-backend/pkg/storage"
)

type documentUsecase struct {
	docRepo       domain.DocumentRepository
	appRepo       domain.ApplicationRepository
	files         domain.FileStorage
	scanner       antivirus.Scanner
	settings      StorageSettings
	requiredTypes []domain.DocumentType
	secLog        *security.SecurityLogger
	now           func() time.Time
}

// NewDocumentUsecase wires document upload and verification. requiredTypes
// drives the progress percentage of each application.
func NewDocumentUsecase(
	docRepo domain.DocumentRepository,
	appRepo domain.ApplicationRepository,
	files domain.FileStorage,
	scanner antivirus.Scanner,
	settings StorageSettings,
	requiredTypes []domain.DocumentType,
	secLog *security.SecurityLogger,
) domain.DocumentUsecase {
	if scanner == nil {
		scanner = &antivirus.NoOpScanner{}
	}
	return &documentUsecase{
		docRepo:       docRepo,
		appRepo:       appRepo,
		files:         files,
		scanner:       scanner,
		settings:      settings,
		requiredTypes: requiredTypes,
		secLog:        secLog,
		now:           time.Now,
	}
}

// Upload validates, scans and stores a file, then records its metadata. If
// the metadata insert fails the stored object is deleted again. A pending or
// rejected document of the same type is replaced; a verified one is not.
func (u *documentUsecase) Upload(ctx context.Context, req domain.UploadDocumentRequest) (*domain.Document, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if !req.DocumentType.IsValid() {
		return nil, apperror.BadRequest("Invalid document type: " + string(req.DocumentType))
	}

	app, err := u.appRepo.GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, repoError(err, "Application")
	}
	if app.UserID != actor.UserID {
		u.secLog.LogAccessDenied(ctx, actor.UserID, "application", app.ID)
		return nil, apperror.Forbidden("You can only upload documents to your own application")
	}
	if !app.Status.AcceptsDocuments() {
		return nil, apperror.Conflict(fmt.Sprintf("Documents cannot be uploaded while the application is %s", app.Status))
	}

	mime, err := storage.DocumentRules.Validate(req.FileName, req.Data)
	if err != nil {
		u.secLog.LogUploadRejected(ctx, actor.UserID, req.FileName, err.Error())
		return nil, fileValidationError(err)
	}

	if result := u.scanner.Scan(ctx, req.FileName, req.Data); result.Infected {
		if result.Error != nil {
			logger.Log.Error("Malware scan failed", "scanner", result.ScannerName, "error", result.Error)
			return nil, apperror.Internal(fmt.Errorf("scan upload: %w", result.Error))
		}
		u.secLog.LogMalwareDetected(ctx, actor.UserID, req.FileName, result.ThreatName, result.ScannerName)
		return nil, apperror.BadRequest("File rejected by malware scan")
	}

	existing, err := u.docRepo.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, repoError(err, "Documents")
	}
	var replaced *domain.Document
	for i := range existing {
		d := &existing[i]
		if d.DocumentType != req.DocumentType {
			continue
		}
		if d.Status == domain.DocumentStatusVerified {
			return nil, apperror.Conflict("A verified document of this type already exists and cannot be replaced")
		}
		replaced = d
	}

	path := storage.DocumentPath(actor.UserID, app.ID, string(req.DocumentType), req.FileName, u.now())
	if err := u.files.Upload(ctx, u.settings.DocumentsBucket, path, mime, req.Data); err != nil {
		return nil, apperror.Internal(fmt.Errorf("upload document: %w", err))
	}

	doc := &domain.Document{
		ApplicationID: app.ID,
		UserID:        actor.UserID,
		DocumentType:  req.DocumentType,
		FileName:      req.FileName,
		StoragePath:   path,
		FileSize:      int64(len(req.Data)),
		MimeType:      mime,
		Status:        domain.DocumentStatusPending,
	}
	activity := &domain.ActivityLog{
		ApplicationID: app.ID,
		ActorID:       actor.UserID,
		Event:         domain.EventDocumentUploaded,
		Description:   fmt.Sprintf("Uploaded %s", humanize(string(req.DocumentType))),
	}

	replaceID := ""
	if replaced != nil {
		replaceID = replaced.ID
		activity.Description = fmt.Sprintf("Replaced %s", humanize(string(req.DocumentType)))
	}

	if err := u.docRepo.Create(ctx, doc, replaceID, activity); err != nil {
		detached(ctx, 10*time.Second, "delete uploaded object after failed insert", func(ctx context.Context) error {
			return u.files.Delete(ctx, u.settings.DocumentsBucket, path)
		})
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, apperror.Conflict("The existing document was verified meanwhile and cannot be replaced")
		}
		return nil, repoError(err, "Document")
	}

	if replaced != nil {
		old := replaced.StoragePath
		detached(ctx, 10*time.Second, "delete replaced document", func(ctx context.Context) error {
			return u.files.Delete(ctx, u.settings.DocumentsBucket, old)
		})
	}

	u.recomputeProgress(ctx, app.ID)
	return doc, nil
}

func (u *documentUsecase) ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	app, err := u.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, repoError(err, "Application")
	}
	if !actor.CanAccess(app.UserID) {
		u.secLog.LogAccessDenied(ctx, actor.UserID, "application", applicationID)
		return nil, apperror.Forbidden("You can only access your own documents")
	}
	docs, err := u.docRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, repoError(err, "Documents")
	}
	return docs, nil
}

// Delete removes an unverified document owned by the caller
func (u *documentUsecase) Delete(ctx context.Context, documentID string) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	doc, err := u.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return repoError(err, "Document")
	}
	if doc.UserID != actor.UserID {
		u.secLog.LogAccessDenied(ctx, actor.UserID, "document", documentID)
		return apperror.Forbidden("You can only delete your own documents")
	}
	if doc.Status == domain.DocumentStatusVerified {
		return apperror.Conflict("Verified documents cannot be deleted")
	}

	if err := u.docRepo.Delete(ctx, documentID); err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return apperror.Conflict("Verified documents cannot be deleted")
		}
		return repoError(err, "Document")
	}

	detached(ctx, 10*time.Second, "delete document object", func(ctx context.Context) error {
		return u.files.Delete(ctx, u.settings.DocumentsBucket, doc.StoragePath)
	})

	u.recomputeProgress(ctx, doc.ApplicationID)
	return nil
}

// SignedURL returns a time-limited download link for the owner or an admin
func (u *documentUsecase) SignedURL(ctx context.Context, documentID string) (*domain.SignedURLResponse, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := u.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, repoError(err, "Document")
	}
	if !actor.CanAccess(doc.UserID) {
		u.secLog.LogAccessDenied(ctx, actor.UserID, "document", documentID)
		return nil, apperror.Forbidden("You can only access your own documents")
	}

	ttl := u.settings.SignedURLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	url, err := u.files.SignedURL(ctx, u.settings.DocumentsBucket, doc.StoragePath, ttl)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("sign document url: %w", err))
	}
	return &domain.SignedURLResponse{URL: url, ExpiresAt: u.now().Add(ttl)}, nil
}

func (u *documentUsecase) Verify(ctx context.Context, documentID string) (*domain.Document, error) {
	return u.review(ctx, documentID, domain.DocumentStatusVerified, "")
}

func (u *documentUsecase) Reject(ctx context.Context, documentID, reason string) (*domain.Document, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.BadRequest("A rejection reason is required")
	}
	return u.review(ctx, documentID, domain.DocumentStatusRejected, reason)
}

func (u *documentUsecase) review(ctx context.Context, documentID string, status domain.DocumentStatus, reason string) (*domain.Document, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := u.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, repoError(err, "Document")
	}
	if doc.Status == status && status == domain.DocumentStatusVerified {
		return nil, apperror.Conflict("Document is already verified")
	}

	now := u.now()
	label := humanize(string(doc.DocumentType))
	review := domain.DocumentReview{
		DocumentID: doc.ID,
		Status:     status,
		ReviewedBy: actor.UserID,
		ReviewedAt: now,
		Audit: &domain.AdminAction{
			AdminID:       actor.UserID,
			ApplicationID: &doc.ApplicationID,
		},
		Activity: &domain.ActivityLog{
			ApplicationID: doc.ApplicationID,
			ActorID:       actor.UserID,
		},
		Notification: &domain.Notification{UserID: doc.UserID},
	}

	var details string
	if status == domain.DocumentStatusVerified {
		review.Audit.ActionType = domain.ActionVerifyDocument
		review.Activity.Event = domain.EventDocumentVerified
		review.Activity.Description = label + " verified"
		review.Notification.Title = "Document verified"
		review.Notification.Message = fmt.Sprintf("Your %s has been verified.", label)
		review.Notification.Type = domain.NotificationTypeSuccess
		details = fmt.Sprintf(`{"document_id":%q,"document_type":%q}`, doc.ID, doc.DocumentType)
	} else {
		review.RejectionReason = &reason
		review.Audit.ActionType = domain.ActionRejectDocument
		review.Activity.Event = domain.EventDocumentRejected
		review.Activity.Description = fmt.Sprintf("%s rejected: %s", label, reason)
		review.Notification.Title = "Document rejected"
		review.Notification.Message = fmt.Sprintf("Your %s was rejected: %s. Please upload a new copy.", label, reason)
		review.Notification.Type = domain.NotificationTypeWarning
		details = fmt.Sprintf(`{"document_id":%q,"document_type":%q,"reason":%q}`, doc.ID, doc.DocumentType, reason)
	}
	review.Audit.Details = []byte(details)

	if err := u.docRepo.UpdateStatus(ctx, review); err != nil {
		return nil, repoError(err, "Document")
	}

	doc.Status = status
	doc.VerifiedBy = &actor.UserID
	doc.VerifiedAt = &now
	doc.RejectionReason = review.RejectionReason

	u.recomputeProgress(ctx, doc.ApplicationID)
	return doc, nil
}

// recomputeProgress refreshes the stored percentage after any document
// change. The change itself is already committed, so failures are logged
// instead of failing the request.
func (u *documentUsecase) recomputeProgress(ctx context.Context, applicationID string) {
	docs, err := u.docRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		logger.Log.Error("Failed to load documents for progress", "application_id", applicationID, "error", err)
		return
	}
	progress := domain.CalculateProgress(docs, u.requiredTypes)
	if err := u.appRepo.UpdateProgress(ctx, applicationID, progress); err != nil {
		logger.Log.Error("Failed to update progress", "application_id", applicationID, "error", err)
	}
}

// humanize turns "pan_card" into "pan card"
func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
