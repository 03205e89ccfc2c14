package usecase

import (
	"context"
	"errors"
	"fmt"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/security"
)

type authUsecase struct {
	profileRepo domain.ProfileRepository
	secLog      *security.SecurityLogger
}

func NewAuthUsecase(profileRepo domain.ProfileRepository, secLog *security.SecurityLogger) domain.AuthUsecase {
	return &authUsecase{profileRepo: profileRepo, secLog: secLog}
}

// EnsureProfile returns the profile behind a verified token, creating a
// candidate profile the first time the identity is seen.
func (u *authUsecase) EnsureProfile(ctx context.Context, id, email string) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(fmt.Errorf("load profile: %w", err))
	}

	// Create ignores conflicts, so two first requests racing both end up reading the same row
	if err := u.profileRepo.Create(ctx, &domain.Profile{ID: id, Email: email, Role: domain.RoleCandidate}); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create profile: %w", err))
	}

	profile, err = u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Profile")
	}
	return profile, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "User")
	}
	return profile, nil
}

// AssignRole changes another user's role. Admins cannot change their own role,
// which keeps at least the acting admin in place.
func (u *authUsecase) AssignRole(ctx context.Context, userID string, role string) (*domain.Profile, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok || !actor.IsAdmin() {
		return nil, apperror.Forbidden("Only admins can assign roles")
	}

	valid := false
	for _, r := range domain.ValidRoles {
		if r == role {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperror.BadRequest("Invalid role: " + role)
	}
	if userID == actor.UserID {
		return nil, apperror.BadRequest("You cannot change your own role")
	}

	profile, err := u.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "User")
	}
	if profile.Role == role {
		return profile, nil
	}

	profile.Role = role
	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, repoError(err, "User")
	}

	u.secLog.LogRoleChanged(ctx, actor.UserID, userID, role)
	return profile, nil
}
