package usecase

import (
	"context"

	"employee-onboarding-backend/internal/domain"
)

type notificationUsecase struct {
	repo domain.NotificationRepository
}

func NewNotificationUsecase(repo domain.NotificationRepository) domain.NotificationUsecase {
	return &notificationUsecase{repo: repo}
}

func (u *notificationUsecase) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	items, err := u.repo.ListByUser(ctx, actor.UserID, unreadOnly)
	if err != nil {
		return nil, repoError(err, "Notifications")
	}
	return items, nil
}

// MarkRead only touches rows owned by the caller; another user's id is a 404
func (u *notificationUsecase) MarkRead(ctx context.Context, id string) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	if err := u.repo.MarkRead(ctx, actor.UserID, id); err != nil {
		return repoError(err, "Notification")
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context) (int64, error) {
	actor, err := currentActor(ctx)
	if err != nil {
		return 0, err
	}
	n, err := u.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, repoError(err, "Notifications")
	}
	return n, nil
}
