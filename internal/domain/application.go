package domain

import (
	"context"
	"strings"
	"time"
)

// ApplicationStatus is the closed set of onboarding application states
type ApplicationStatus string

const (
	ApplicationStatusDraft            ApplicationStatus = "draft"
	ApplicationStatusSubmitted        ApplicationStatus = "submitted"
	ApplicationStatusUnderReview      ApplicationStatus = "under_review"
	ApplicationStatusDocumentsPending ApplicationStatus = "documents_pending"
	ApplicationStatusAccepted         ApplicationStatus = "accepted"
	ApplicationStatusRejected         ApplicationStatus = "rejected"
	ApplicationStatusCompleted        ApplicationStatus = "completed"
)

// statusAliases maps legacy spellings to their canonical status
var statusAliases = map[string]ApplicationStatus{
	"approved": ApplicationStatusAccepted,
}

// ValidApplicationStatuses returns all statuses in workflow order
func ValidApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusDraft,
		ApplicationStatusSubmitted,
		ApplicationStatusUnderReview,
		ApplicationStatusDocumentsPending,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
		ApplicationStatusCompleted,
	}
}

// ParseApplicationStatus normalizes case and aliases, reporting whether the value is known
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if alias, ok := statusAliases[s]; ok {
		return alias, true
	}
	st := ApplicationStatus(s)
	return st, st.IsValid()
}

// IsValid checks if the status is one of the known values
func (s ApplicationStatus) IsValid() bool {
	for _, valid := range ValidApplicationStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// IsTerminal reports whether review has concluded
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected || s == ApplicationStatusCompleted
}

// applicationTransitions lists the allowed source states for each target state.
// draft -> submitted -> under_review -> (accepted -> completed) | rejected,
// with documents_pending as a detour while the review is open.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusSubmitted:        {ApplicationStatusDraft},
	ApplicationStatusUnderReview:      {ApplicationStatusSubmitted, ApplicationStatusDocumentsPending},
	ApplicationStatusDocumentsPending: {ApplicationStatusSubmitted, ApplicationStatusUnderReview},
	ApplicationStatusAccepted:         {ApplicationStatusSubmitted, ApplicationStatusUnderReview, ApplicationStatusDocumentsPending},
	ApplicationStatusRejected:         {ApplicationStatusSubmitted, ApplicationStatusUnderReview, ApplicationStatusDocumentsPending},
	ApplicationStatusCompleted:        {ApplicationStatusAccepted},
}

// CanTransitionTo reports whether the workflow allows moving from s to next
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, from := range applicationTransitions[next] {
		if from == s {
			return true
		}
	}
	return false
}

// AcceptsDocuments reports whether the owner may still upload or replace documents
func (s ApplicationStatus) AcceptsDocuments() bool {
	return s == ApplicationStatusDraft || s == ApplicationStatusSubmitted || s == ApplicationStatusDocumentsPending
}

// EducationEntry is one row of the applicant's education history
type EducationEntry struct {
	Level      string  `json:"level" validate:"required,oneof=10th 12th diploma graduation post_graduation doctorate"`
	Year       int     `json:"year" validate:"required,min=1950,max_current_year"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

// Application is a candidate's onboarding submission
type Application struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	PostApplied       string            `json:"post_applied"`
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	DateOfBirth       *time.Time        `json:"date_of_birth,omitempty"`
	Address           string            `json:"address"`
	City              string            `json:"city"`
	State             string            `json:"state"`
	Pincode           string            `json:"pincode"`
	PANNumber         string            `json:"pan_number"`
	AadharNumber      string            `json:"aadhar_number"`
	BankAccountNumber string            `json:"bank_account_number"`
	IFSCCode          string            `json:"ifsc_code"`
	Education         []EducationEntry  `json:"education"`
	Status            ApplicationStatus `json:"status"`
	Progress          int               `json:"progress"` // 0-100
	SubmittedAt       *time.Time        `json:"submitted_at,omitempty"`
	ReviewedAt        *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy        *string           `json:"reviewed_by,omitempty"`
	RejectionReason   *string           `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Joined data for admin list responses
	ProfileName   *string `json:"profile_name,omitempty"`
	ProfileEmail  *string `json:"profile_email,omitempty"`
	DocumentCount int     `json:"document_count"`
}

// DisplayName prefers the applicant-entered name, then the profile name, then the email
func (a *Application) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	if a.ProfileName != nil && *a.ProfileName != "" {
		return *a.ProfileName
	}
	return a.DisplayEmail()
}

// DisplayEmail prefers the applicant-entered email over the account email
func (a *Application) DisplayEmail() string {
	if a.Email != "" {
		return a.Email
	}
	if a.ProfileEmail != nil {
		return *a.ProfileEmail
	}
	return ""
}

// MissingRequiredFields lists the fields that must be filled before submission.
// Format rules are enforced separately by the validator tags on ApplicationInput.
func (a *Application) MissingRequiredFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"post_applied", a.PostApplied},
		{"full_name", a.FullName},
		{"email", a.Email},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
		{"pan_number", a.PANNumber},
		{"aadhar_number", a.AadharNumber},
		{"bank_account_number", a.BankAccountNumber},
		{"ifsc_code", a.IFSCCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if a.DateOfBirth == nil {
		missing = append(missing, "date_of_birth")
	}
	if len(a.Education) == 0 {
		missing = append(missing, "education")
	}
	return missing
}

// ApplicationInput is the applicant-editable part of an application.
// Every field is optional while drafting; completeness is checked on submit.
type ApplicationInput struct {
	PostApplied       *string          `json:"post_applied" validate:"omitempty,max=120"`
	FullName          *string          `json:"full_name" validate:"omitempty,min=2,max=120,valid_name"`
	Email             *string          `json:"email" validate:"omitempty,email"`
	Phone             *string          `json:"phone" validate:"omitempty,valid_phone"`
	DateOfBirth       *string          `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address           *string          `json:"address" validate:"omitempty,max=500"`
	City              *string          `json:"city" validate:"omitempty,max=100"`
	State             *string          `json:"state" validate:"omitempty,max=100"`
	Pincode           *string          `json:"pincode" validate:"omitempty,numeric,len=6"`
	PANNumber         *string          `json:"pan_number" validate:"omitempty,pan_number"`
	AadharNumber      *string          `json:"aadhar_number" validate:"omitempty,aadhar_number"`
	BankAccountNumber *string          `json:"bank_account_number" validate:"omitempty,numeric,min=9,max=18"`
	IFSCCode          *string          `json:"ifsc_code" validate:"omitempty,ifsc_code"`
	Education         []EducationEntry `json:"education" validate:"omitempty,max=10,dive"`
}

// ApplyTo copies every provided field onto app
func (in *ApplicationInput) ApplyTo(app *Application) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&app.PostApplied, in.PostApplied)
	set(&app.FullName, in.FullName)
	set(&app.Email, in.Email)
	set(&app.Phone, in.Phone)
	set(&app.Address, in.Address)
	set(&app.City, in.City)
	set(&app.State, in.State)
	set(&app.Pincode, in.Pincode)
	set(&app.BankAccountNumber, in.BankAccountNumber)
	if in.PANNumber != nil {
		app.PANNumber = strings.ToUpper(strings.TrimSpace(*in.PANNumber))
	}
	if in.AadharNumber != nil {
		app.AadharNumber = strings.ReplaceAll(strings.TrimSpace(*in.AadharNumber), " ", "")
	}
	if in.IFSCCode != nil {
		app.IFSCCode = strings.ToUpper(strings.TrimSpace(*in.IFSCCode))
	}
	if in.DateOfBirth != nil {
		if *in.DateOfBirth == "" {
			app.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *in.DateOfBirth)
			if err != nil {
				return err
			}
			app.DateOfBirth = &dob
		}
	}
	if in.Education != nil {
		app.Education = in.Education
	}
	return nil
}

// ApplicationDetailResponse bundles an application with its documents
type ApplicationDetailResponse struct {
	Application *Application  `json:"application"`
	Documents   []Document    `json:"documents"`
	AuditLog    []AdminAction `json:"audit_log,omitempty"` // Admin view only
}

// StatusTransition describes one guarded status change and the rows written with it
type StatusTransition struct {
	ApplicationID   string
	From            ApplicationStatus
	To              ApplicationStatus
	At              time.Time
	ReviewedBy      *string
	RejectionReason *string
	Audit           *AdminAction
	Activity        *ActivityLog
	Notification    *Notification
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application, activity *ActivityLog) error
	GetByID(ctx context.Context, id string) (*Application, error)
	GetByUserID(ctx context.Context, userID string) ([]Application, error)
	ListAll(ctx context.Context) ([]Application, error)
	UpdateFields(ctx context.Context, app *Application) error
	// Submit saves the fields and flips draft -> submitted atomically
	Submit(ctx context.Context, app *Application, activity *ActivityLog) error
	// Transition applies a guarded status change; ErrStatusConflict when the row left From
	Transition(ctx context.Context, t StatusTransition) error
	UpdateProgress(ctx context.Context, id string, progress int) error
	Delete(ctx context.Context, id string, audit *AdminAction) error
}

// ApplicationUsecase defines the candidate-facing application workflow
type ApplicationUsecase interface {
	GetMyApplications(ctx context.Context) ([]Application, error)
	GetApplicationDetail(ctx context.Context, id string) (*ApplicationDetailResponse, error)
	CreateDraft(ctx context.Context, input ApplicationInput) (*Application, error)
	UpdateDraft(ctx context.Context, id string, input ApplicationInput) (*Application, error)
	Submit(ctx context.Context, id string, input *ApplicationInput) (*Application, error)
	GetTimeline(ctx context.Context, id string) ([]ActivityLog, error)
}
