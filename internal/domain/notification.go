package domain

import (
	"context"
	"time"
)

// Notification types
const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
)

// Notification is a per-user inbox message
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Timeline events
const (
	EventCreated            = "application_created"
	EventSubmitted          = "application_submitted"
	EventReviewStarted      = "review_started"
	EventDocumentsRequested = "documents_requested"
	EventAccepted           = "application_accepted"
	EventRejected           = "application_rejected"
	EventCompleted          = "onboarding_completed"
	EventDocumentUploaded   = "document_uploaded"
	EventDocumentVerified   = "document_verified"
	EventDocumentRejected   = "document_rejected"
	EventDocumentDeleted    = "document_deleted"
)

// ActivityLog is one timeline entry of an application
type ActivityLog struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	ActorID       string    `json:"actor_id"`
	Event         string    `json:"event"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type ActivityRepository interface {
	ListByApplication(ctx context.Context, applicationID string) ([]ActivityLog, error)
}

type NotificationUsecase interface {
	List(ctx context.Context, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
}

// StatusEmail is the content of an application status email
type StatusEmail struct {
	To            string
	CandidateName string
	ApplicationID string
	Status        ApplicationStatus
	Reason        string
	PortalURL     string
}

// Mailer delivers status emails; delivery is best-effort
type Mailer interface {
	SendStatusUpdate(ctx context.Context, msg StatusEmail) error
}
