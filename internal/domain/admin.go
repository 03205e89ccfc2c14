package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Audit action types
const (
	ActionStartReview       = "start_review"
	ActionApprove           = "approve"
	ActionReject            = "reject"
	ActionRequestDocuments  = "request_documents"
	ActionComplete          = "complete"
	ActionVerifyDocument    = "verify_document"
	ActionRejectDocument    = "reject_document"
	ActionDeleteApplication = "delete_application"
)

// AdminAction is one append-only audit row
type AdminAction struct {
	ID            string          `json:"id"`
	AdminID       string          `json:"admin_id"`
	ApplicationID *string         `json:"application_id,omitempty"`
	ActionType    string          `json:"action_type"`
	Details       json.RawMessage `json:"details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Sort keys for application lists
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortName   = "name"
)

// Pagination bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ApplicationQuery is the admin list filter
type ApplicationQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Normalize clamps pagination and fills defaults
func (q *ApplicationQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	switch q.Sort {
	case SortNewest, SortOldest, SortName:
	default:
		q.Sort = SortNewest
	}
}

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// ReviewRequest carries the optional note or mandatory reason of an admin decision
type ReviewRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// SetRoleRequest is the admin role assignment payload
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=candidate admin"`
}

// AuditRepository reads the admin action log
type AuditRepository interface {
	ListByApplication(ctx context.Context, applicationID string) ([]AdminAction, error)
}

// AdminUsecase defines the admin review workflow
type AdminUsecase interface {
	ListApplications(ctx context.Context, q ApplicationQuery) (*PaginatedResult[Application], error)
	GetApplication(ctx context.Context, id string) (*ApplicationDetailResponse, error)
	StartReview(ctx context.Context, id string) (*Application, error)
	RequestDocuments(ctx context.Context, id, reason string) (*Application, error)
	Approve(ctx context.Context, id, note string) (*Application, error)
	Reject(ctx context.Context, id, reason string) (*Application, error)
	Complete(ctx context.Context, id string) (*Application, error)
	DeleteApplication(ctx context.Context, id string) error
}
