package v1_test

import (
	"context"

	"employee-onboarding-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) EnsureProfile(ctx context.Context, id, email string) (*domain.Profile, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAuthUsecase) AssignRole(ctx context.Context, userID, role string) (*domain.Profile, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type MockProfileUsecase struct{ mock.Mock }

func (m *MockProfileUsecase) GetMe(ctx context.Context) (*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileUsecase) UpdateMe(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileUsecase) UploadAvatar(ctx context.Context, filename string, data []byte) (*domain.Profile, error) {
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileUsecase) AvatarURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockApplicationUsecase struct{ mock.Mock }

func (m *MockApplicationUsecase) GetMyApplications(ctx context.Context) ([]domain.Application, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) GetApplicationDetail(ctx context.Context, id string) (*domain.ApplicationDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationDetailResponse), args.Error(1)
}

func (m *MockApplicationUsecase) CreateDraft(ctx context.Context, input domain.ApplicationInput) (*domain.Application, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) UpdateDraft(ctx context.Context, id string, input domain.ApplicationInput) (*domain.Application, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) Submit(ctx context.Context, id string, input *domain.ApplicationInput) (*domain.Application, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationUsecase) GetTimeline(ctx context.Context, id string) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

type MockDocumentUsecase struct{ mock.Mock }

func (m *MockDocumentUsecase) Upload(ctx context.Context, req domain.UploadDocumentRequest) (*domain.Document, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentUsecase) ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentUsecase) Delete(ctx context.Context, documentID string) error {
	return m.Called(ctx, documentID).Error(0)
}

func (m *MockDocumentUsecase) SignedURL(ctx context.Context, documentID string) (*domain.SignedURLResponse, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignedURLResponse), args.Error(1)
}

func (m *MockDocumentUsecase) Verify(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentUsecase) Reject(ctx context.Context, documentID, reason string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

type MockAdminUsecase struct{ mock.Mock }

func (m *MockAdminUsecase) ListApplications(ctx context.Context, q domain.ApplicationQuery) (*domain.PaginatedResult[domain.Application], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.Application]), args.Error(1)
}

func (m *MockAdminUsecase) GetApplication(ctx context.Context, id string) (*domain.ApplicationDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationDetailResponse), args.Error(1)
}

func (m *MockAdminUsecase) app(args mock.Arguments) (*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockAdminUsecase) StartReview(ctx context.Context, id string) (*domain.Application, error) {
	return m.app(m.Called(ctx, id))
}

func (m *MockAdminUsecase) RequestDocuments(ctx context.Context, id, reason string) (*domain.Application, error) {
	return m.app(m.Called(ctx, id, reason))
}

func (m *MockAdminUsecase) Approve(ctx context.Context, id, note string) (*domain.Application, error) {
	return m.app(m.Called(ctx, id, note))
}

func (m *MockAdminUsecase) Reject(ctx context.Context, id, reason string) (*domain.Application, error) {
	return m.app(m.Called(ctx, id, reason))
}

func (m *MockAdminUsecase) Complete(ctx context.Context, id string) (*domain.Application, error) {
	return m.app(m.Called(ctx, id))
}

func (m *MockAdminUsecase) DeleteApplication(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockReportUsecase struct{ mock.Mock }

func (m *MockReportUsecase) GetStatistics(ctx context.Context, bucket string) (*domain.Statistics, error) {
	args := m.Called(ctx, bucket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *MockReportUsecase) Export(ctx context.Context, q domain.ApplicationQuery, format string) (*domain.ExportFile, error) {
	args := m.Called(ctx, q, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportFile), args.Error(1)
}

type MockNotificationUsecase struct{ mock.Mock }

func (m *MockNotificationUsecase) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	args := m.Called(ctx, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationUsecase) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotificationUsecase) MarkAllRead(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type stubHealth struct {
	status  map[string]string
	healthy bool
}

func (s stubHealth) Check(ctx context.Context) (map[string]string, bool) {
	return s.status, s.healthy
}
