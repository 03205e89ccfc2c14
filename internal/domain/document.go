package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

// DocumentType is the closed set of document kinds a candidate can upload
type DocumentType string

const (
	DocumentTypePANCard           DocumentType = "pan_card"
	DocumentTypeAadharCard        DocumentType = "aadhar_card"
	DocumentTypeMarksheet10th     DocumentType = "marksheet_10th"
	DocumentTypeMarksheet12th     DocumentType = "marksheet_12th"
	DocumentTypeDegreeCertificate DocumentType = "degree_certificate"
	DocumentTypePhoto             DocumentType = "photo"
	DocumentTypeBankPassbook      DocumentType = "bank_passbook"
	DocumentTypeExperienceLetter  DocumentType = "experience_letter"
	DocumentTypeOther             DocumentType = "other"
)

// ValidDocumentTypes for validation
var ValidDocumentTypes = []DocumentType{
	DocumentTypePANCard,
	DocumentTypeAadharCard,
	DocumentTypeMarksheet10th,
	DocumentTypeMarksheet12th,
	DocumentTypeDegreeCertificate,
	DocumentTypePhoto,
	DocumentTypeBankPassbook,
	DocumentTypeExperienceLetter,
	DocumentTypeOther,
}

// IsValid checks membership in ValidDocumentTypes
func (t DocumentType) IsValid() bool {
	for _, v := range ValidDocumentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// DocumentStatus is the verification state of one document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// NormalizeDocumentStatus maps the legacy "uploaded" value to pending
func NormalizeDocumentStatus(s string) DocumentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verified":
		return DocumentStatusVerified
	case "rejected":
		return DocumentStatusRejected
	default:
		return DocumentStatusPending
	}
}

// Document is the metadata row for one stored file
type Document struct {
	ID              string         `json:"id"`
	ApplicationID   string         `json:"application_id"`
	UserID          string         `json:"user_id"`
	DocumentType    DocumentType   `json:"document_type"`
	FileName        string         `json:"file_name"`
	StoragePath     string         `json:"storage_path"`
	FileSize        int64          `json:"file_size"`
	MimeType        string         `json:"mime_type"`
	Status          DocumentStatus `json:"status"`
	VerifiedBy      *string        `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time     `json:"verified_at,omitempty"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// UploadDocumentRequest carries one multipart upload
type UploadDocumentRequest struct {
	ApplicationID string
	DocumentType  DocumentType
	FileName      string
	Data          []byte
	ClientIP      string
}

// SignedURLResponse is a time-limited download link
type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DocumentReview describes a verify/reject decision and the rows written with it
type DocumentReview struct {
	DocumentID      string
	Status          DocumentStatus
	ReviewedBy      string
	ReviewedAt      time.Time
	RejectionReason *string
	Audit           *AdminAction
	Activity        *ActivityLog
	Notification    *Notification
}

// CalculateProgress returns the share of required document types that have a
// verified document, as a whole percentage in [0, 100]. With no required
// types, any verified document completes the application.
func CalculateProgress(docs []Document, required []DocumentType) int {
	verified := make(map[DocumentType]bool)
	for _, d := range docs {
		if d.Status == DocumentStatusVerified {
			verified[d.DocumentType] = true
		}
	}

	if len(required) == 0 {
		if len(verified) > 0 {
			return 100
		}
		return 0
	}

	seen := make(map[DocumentType]bool, len(required))
	total, done := 0, 0
	for _, t := range required {
		if seen[t] {
			continue
		}
		seen[t] = true
		total++
		if verified[t] {
			done++
		}
	}

	p := int(math.Round(float64(done) / float64(total) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DocumentRepository defines data access methods for document metadata
type DocumentRepository interface {
	// Create inserts doc; a non-empty replaceID row is deleted in the same transaction
	Create(ctx context.Context, doc *Document, replaceID string, activity *ActivityLog) error
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByApplication(ctx context.Context, applicationID string) ([]Document, error)
	ListAll(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, review DocumentReview) error
}

// DocumentUsecase defines upload and verification business logic
type DocumentUsecase interface {
	Upload(ctx context.Context, req UploadDocumentRequest) (*Document, error)
	ListByApplication(ctx context.Context, applicationID string) ([]Document, error)
	Delete(ctx context.Context, documentID string) error
	SignedURL(ctx context.Context, documentID string) (*SignedURLResponse, error)
	Verify(ctx context.Context, documentID string) (*Document, error)
	Reject(ctx context.Context, documentID, reason string) (*Document, error)
}

// FileStorage abstracts the object store holding documents and avatars
type FileStorage interface {
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) error
	Delete(ctx context.Context, bucket string, paths ...string) error
	SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}
