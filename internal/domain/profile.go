package domain

import (
	"context"
	"time"
)

const (
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

// ValidRoles for validation
var ValidRoles = []string{RoleCandidate, RoleAdmin}

// Profile is the identity record linked 1:1 to a Supabase auth account
type Profile struct {
	ID        string    `json:"id"` // Supabase UUID
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"` // Storage path in the photos bucket
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the full name, falling back to the email
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Email
}

// UpdateProfileRequest carries the fields a user may change on their own profile
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=120,valid_name"`
	Phone    *string `json:"phone" validate:"omitempty,valid_phone"`
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

type AuthUsecase interface {
	// EnsureProfile returns the profile for an authenticated identity, creating it on first sight
	EnsureProfile(ctx context.Context, id, email string) (*Profile, error)
	GetCurrentUser(ctx context.Context, id string) (*Profile, error)
	AssignRole(ctx context.Context, userID string, role string) (*Profile, error)
}

type ProfileUsecase interface {
	GetMe(ctx context.Context) (*Profile, error)
	UpdateMe(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
	UploadAvatar(ctx context.Context, filename string, data []byte) (*Profile, error)
	AvatarURL(ctx context.Context) (string, error)
}
