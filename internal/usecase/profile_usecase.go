package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/security"
	"employee-onboarding-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// StorageSettings names the buckets and the signed URL lifetime
type StorageSettings struct {
	DocumentsBucket string
	PhotosBucket    string
	SignedURLTTL    time.Duration
}

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	files       domain.FileStorage
	settings    StorageSettings
	validate    *validator.Validate
	secLog      *security.SecurityLogger
	now         func() time.Time
}

func NewProfileUsecase(
	profileRepo domain.ProfileRepository,
	files domain.FileStorage,
	settings StorageSettings,
	validate *validator.Validate,
	secLog *security.SecurityLogger,
) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		files:       files,
		settings:    settings,
		validate:    validate,
		secLog:      secLog,
		now:         time.Now,
	}
}

func (u *profileUsecase) GetMe(ctx context.Context) (*domain.Profile, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := u.profileRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "Profile")
	}
	return profile, nil
}

func (u *profileUsecase) UpdateMe(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		req.FullName = &trimmed
	}
	if req.Phone != nil {
		trimmed := strings.TrimSpace(*req.Phone)
		req.Phone = &trimmed
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	profile, err := u.profileRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "Profile")
	}
	if req.FullName != nil {
		profile.FullName = req.FullName
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}

	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, repoError(err, "Profile")
	}
	return profile, nil
}

// UploadAvatar validates the photo, re-encodes it as a JPEG of at most
// 800px, stores it and removes the previous avatar.
func (u *profileUsecase) UploadAvatar(ctx context.Context, filename string, data []byte) (*domain.Profile, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := storage.PhotoRules.Validate(filename, data); err != nil {
		u.secLog.LogUploadRejected(ctx, actor.UserID, filename, err.Error())
		return nil, fileValidationError(err)
	}

	compressed, err := storage.CompressImage(data, storage.AvatarMaxDimension, storage.AvatarQuality)
	if err != nil {
		return nil, apperror.BadRequest("Image could not be processed")
	}

	profile, err := u.profileRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "Profile")
	}

	path := storage.AvatarPath(actor.UserID, filename, u.now())
	if err := u.files.Upload(ctx, u.settings.PhotosBucket, path, "image/jpeg", compressed); err != nil {
		return nil, apperror.Internal(fmt.Errorf("upload avatar: %w", err))
	}

	previous := profile.AvatarURL
	profile.AvatarURL = &path
	if err := u.profileRepo.Update(ctx, profile); err != nil {
		detached(ctx, 10*time.Second, "delete orphaned avatar", func(ctx context.Context) error {
			return u.files.Delete(ctx, u.settings.PhotosBucket, path)
		})
		return nil, repoError(err, "Profile")
	}

	if previous != nil && *previous != "" && *previous != path {
		detached(ctx, 10*time.Second, "delete previous avatar", func(ctx context.Context) error {
			return u.files.Delete(ctx, u.settings.PhotosBucket, *previous)
		})
	}
	return profile, nil
}

// AvatarURL returns a signed URL for the caller's avatar
func (u *profileUsecase) AvatarURL(ctx context.Context) (string, error) {
	profile, err := u.GetMe(ctx)
	if err != nil {
		return "", err
	}
	if profile.AvatarURL == nil || *profile.AvatarURL == "" {
		return "", apperror.NotFound("No avatar uploaded")
	}
	url, err := u.files.SignedURL(ctx, u.settings.PhotosBucket, *profile.AvatarURL, u.settings.SignedURLTTL)
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("sign avatar url: %w", err))
	}
	return url, nil
}

// fileValidationError turns a storage rule violation into a 400 or 413
func fileValidationError(err error) error {
	var vErr *storage.ValidationError
	if errors.As(err, &vErr) {
		if vErr.TooLarge {
			return apperror.TooLarge(vErr.Reason)
		}
		return apperror.BadRequest(vErr.Reason)
	}
	return apperror.BadRequest(err.Error())
}
