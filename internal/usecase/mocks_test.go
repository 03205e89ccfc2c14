package usecase_test

import (
	"context"
	"time"

	"employee-onboarding-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application, activity *domain.ActivityLog) error {
	return m.Called(ctx, app, activity).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListAll(ctx context.Context) ([]domain.Application, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) UpdateFields(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) Submit(ctx context.Context, app *domain.Application, activity *domain.ActivityLog) error {
	return m.Called(ctx, app, activity).Error(0)
}

func (m *MockApplicationRepo) Transition(ctx context.Context, t domain.StatusTransition) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockApplicationRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	return m.Called(ctx, id, progress).Error(0)
}

func (m *MockApplicationRepo) Delete(ctx context.Context, id string, audit *domain.AdminAction) error {
	return m.Called(ctx, id, audit).Error(0)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document, replaceID string, activity *domain.ActivityLog) error {
	return m.Called(ctx, doc, replaceID, activity).Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListAll(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDocumentRepo) UpdateStatus(ctx context.Context, review domain.DocumentReview) error {
	return m.Called(ctx, review).Error(0)
}

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.AdminAction, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AdminAction), args.Error(1)
}

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Upload(ctx context.Context, bucket, path, contentType string, data []byte) error {
	return m.Called(ctx, bucket, path, contentType, data).Error(0)
}

func (m *MockFileStorage) Delete(ctx context.Context, bucket string, paths ...string) error {
	return m.Called(ctx, bucket, paths).Error(0)
}

func (m *MockFileStorage) SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, path, ttl)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendStatusUpdate(ctx context.Context, msg domain.StatusEmail) error {
	return m.Called(ctx, msg).Error(0)
}

func candidateCtx(userID string) context.Context {
	return domain.WithActor(context.Background(), domain.Actor{UserID: userID, Email: userID + "@example.com", Role: domain.RoleCandidate})
}

func adminCtx() context.Context {
	return domain.WithActor(context.Background(), domain.Actor{UserID: "admin-1", Email: "hr@example.com", Role: domain.RoleAdmin})
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
