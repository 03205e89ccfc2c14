package v1_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"employee-onboarding-backend/config"
	"employee-onboarding-backend/internal/delivery/http/middleware"
	v1 "employee-onboarding-backend/internal/delivery/http/v1"
	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/auth"
	"employee-onboarding-backend/pkg/security"
	"employee-onboarding-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenVerifier map[string]*auth.Identity

func (v tokenVerifier) Verify(token string) (*auth.Identity, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return nil, errors.New("invalid token")
}

type testEnv struct {
	router  *gin.Engine
	app     *MockApplicationUsecase
	doc     *MockDocumentUsecase
	admin   *MockAdminUsecase
	report  *MockReportUsecase
	notify  *MockNotificationUsecase
	profile *MockProfileUsecase
	auth    *MockAuthUsecase
}

func newTestEnv(t *testing.T, health stubHealth) *testEnv {
	t.Helper()
	env := &testEnv{
		app:     new(MockApplicationUsecase),
		doc:     new(MockDocumentUsecase),
		admin:   new(MockAdminUsecase),
		report:  new(MockReportUsecase),
		notify:  new(MockNotificationUsecase),
		profile: new(MockProfileUsecase),
		auth:    new(MockAuthUsecase),
	}
	env.auth.On("EnsureProfile", mock.Anything, "cand-1", "cand@example.com").
		Return(&domain.Profile{ID: "cand-1", Email: "cand@example.com", Role: domain.RoleCandidate}, nil).Maybe()
	env.auth.On("EnsureProfile", mock.Anything, "admin-1", "admin@example.com").
		Return(&domain.Profile{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}, nil).Maybe()

	secLog := security.NopSecurityLogger()
	cfg := &config.Config{
		Env:                      "test",
		FrontendURL:              "http://localhost:3000",
		RateLimitWindowSeconds:   60,
		RateLimitGlobalThreshold: 1000,
	}
	env.router = v1.NewRouter(v1.RouterDeps{
		AuthUC:         env.auth,
		ProfileUC:      env.profile,
		ApplicationUC:  env.app,
		DocumentUC:     env.doc,
		AdminUC:        env.admin,
		ReportUC:       env.report,
		NotificationUC: env.notify,
		HealthUC:       health,
		Verifier: tokenVerifier{
			"cand-token":  {UserID: "cand-1", Email: "cand@example.com"},
			"admin-token": {UserID: "admin-1", Email: "admin@example.com"},
		},
		SecLog:        secLog,
		RateLimiter:   middleware.NewRateLimiter(nil, secLog),
		UploadLimiter: security.NewUploadLimiter(nil, 0, 0),
		Config:        cfg,
	})
	return env
}

func (e *testEnv) do(method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	t.Run("operational", func(t *testing.T) {
		env := newTestEnv(t, stubHealth{status: map[string]string{"status": "ok"}, healthy: true})
		w := env.do(http.MethodGet, "/v1/health", "", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("degraded", func(t *testing.T) {
		env := newTestEnv(t, stubHealth{status: map[string]string{"status": "degraded", "database": "unavailable"}, healthy: false})
		w := env.do(http.MethodGet, "/v1/health", "", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unavailable")
	})
}

func TestApplicationRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	w := env.do(http.MethodGet, "/v1/applications", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.app.AssertNotCalled(t, "GetMyApplications", mock.Anything)
}

func TestCreateDraft(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})

	t.Run("empty body", func(t *testing.T) {
		env.app.On("CreateDraft", mock.Anything, domain.ApplicationInput{}).
			Return(&domain.Application{ID: "app-1", UserID: "cand-1", Status: domain.ApplicationStatusDraft}, nil).Once()
		w := env.do(http.MethodPost, "/v1/applications", "cand-token", nil, "")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, true, envelope(t, w)["success"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := env.do(http.MethodPost, "/v1/applications", "cand-token", []byte(`{"post_applied":`), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubmit(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})

	t.Run("without body submits stored draft", func(t *testing.T) {
		env.app.On("Submit", mock.Anything, "app-1", (*domain.ApplicationInput)(nil)).
			Return(&domain.Application{ID: "app-1", Status: domain.ApplicationStatusSubmitted}, nil).Once()
		w := env.do(http.MethodPost, "/v1/applications/app-1/submit", "cand-token", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing fields are listed", func(t *testing.T) {
		env.app.On("Submit", mock.Anything, "app-2", mock.MatchedBy(func(in *domain.ApplicationInput) bool {
			return in != nil && in.PostApplied != nil && *in.PostApplied == "Engineer"
		})).Return(nil, apperror.BadRequest("Application is incomplete").WithDetails(map[string]any{
			"missing_fields": []string{"full_name"},
		})).Once()

		w := env.do(http.MethodPost, "/v1/applications/app-2/submit", "cand-token", []byte(`{"post_applied":"Engineer"}`), "application/json")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "full_name")
	})

	t.Run("not owner", func(t *testing.T) {
		env.app.On("Submit", mock.Anything, "app-3", (*domain.ApplicationInput)(nil)).
			Return(nil, apperror.Forbidden("You do not have access to this application")).Once()
		w := env.do(http.MethodPost, "/v1/applications/app-3/submit", "cand-token", nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUploadDocument(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})

	t.Run("passes file and type", func(t *testing.T) {
		content := []byte("%PDF-1.4 test")
		env.doc.On("Upload", mock.Anything, mock.MatchedBy(func(req domain.UploadDocumentRequest) bool {
			return req.ApplicationID == "app-1" &&
				req.DocumentType == domain.DocumentType("pan_card") &&
				req.FileName == "pan.pdf" &&
				bytes.Equal(req.Data, content)
		})).Return(&domain.Document{ID: "doc-1", Status: domain.DocumentStatusPending}, nil).Once()

		body, ct := multipartBody(t, map[string]string{"document_type": "pan_card"}, "pan.pdf", content)
		w := env.do(http.MethodPost, "/v1/applications/app-1/documents", "cand-token", body, ct)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("file field missing", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"document_type": "pan_card"}, "", nil)
		w := env.do(http.MethodPost, "/v1/applications/app-1/documents", "cand-token", body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversize file", func(t *testing.T) {
		big := bytes.Repeat([]byte("a"), int(storage.DocumentRules.MaxSize)+1)
		body, ct := multipartBody(t, map[string]string{"document_type": "pan_card"}, "big.pdf", big)
		w := env.do(http.MethodPost, "/v1/applications/app-1/documents", "cand-token", body, ct)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	env.doc.AssertNumberOfCalls(t, "Upload", 1)
}

func TestDocumentURL(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	expires := time.Now().Add(time.Hour).UTC()
	env.doc.On("SignedURL", mock.Anything, "doc-1").
		Return(&domain.SignedURLResponse{URL: "https://files.example.com/signed", ExpiresAt: expires}, nil)

	w := env.do(http.MethodGet, "/v1/documents/doc-1/url", "cand-token", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://files.example.com/signed")
}

func TestAdminRoutes_CandidateForbidden(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})

	for _, path := range []string{"/v1/admin/applications", "/v1/admin/reports/statistics", "/v1/admin/reports/export"} {
		w := env.do(http.MethodGet, path, "cand-token", nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
	env.admin.AssertNotCalled(t, "ListApplications", mock.Anything, mock.Anything)
}

func TestAdminListApplications(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	env.admin.On("ListApplications", mock.Anything, domain.ApplicationQuery{
		Search: "ravi", Status: "under_review", Sort: "name", Page: 2, PageSize: 5,
	}).Return(&domain.PaginatedResult[domain.Application]{Total: 6, Page: 2, PageSize: 5, TotalPages: 2}, nil)

	w := env.do(http.MethodGet, "/v1/admin/applications?search=ravi&status=under_review&sort=name&page=2&page_size=5", "admin-token", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 6, data["total"])
}

func TestAdminTransitions(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})

	t.Run("reject with reason", func(t *testing.T) {
		env.admin.On("Reject", mock.Anything, "app-1", "Incomplete Information").
			Return(&domain.Application{ID: "app-1", Status: domain.ApplicationStatusRejected}, nil).Once()
		w := env.do(http.MethodPost, "/v1/admin/applications/app-1/reject", "admin-token", []byte(`{"reason":"Incomplete Information"}`), "application/json")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reason too long", func(t *testing.T) {
		long := `{"reason":"` + strings.Repeat("x", 1001) + `"}`
		w := env.do(http.MethodPost, "/v1/admin/applications/app-1/reject", "admin-token", []byte(long), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("approve without body", func(t *testing.T) {
		env.admin.On("Approve", mock.Anything, "app-2", "").
			Return(&domain.Application{ID: "app-2", Status: domain.ApplicationStatusAccepted}, nil).Once()
		w := env.do(http.MethodPost, "/v1/admin/applications/app-2/approve", "admin-token", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("approve with empty chunked body", func(t *testing.T) {
		env.admin.On("Approve", mock.Anything, "app-4", "").
			Return(&domain.Application{ID: "app-4", Status: domain.ApplicationStatusAccepted}, nil).Once()
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/applications/app-4/approve", strings.NewReader(""))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer admin-token")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject with empty chunked body needs a reason", func(t *testing.T) {
		env.admin.On("Reject", mock.Anything, "app-5", "").
			Return(nil, apperror.BadRequest("A reason is required")).Once()
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/applications/app-5/reject", strings.NewReader(""))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer admin-token")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "A reason is required")
	})

	t.Run("illegal transition", func(t *testing.T) {
		env.admin.On("Complete", mock.Anything, "app-3").
			Return(nil, apperror.Conflict("Cannot move application from submitted to completed")).Once()
		w := env.do(http.MethodPost, "/v1/admin/applications/app-3/complete", "admin-token", nil, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAdminDocumentReview(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	env.doc.On("Verify", mock.Anything, "doc-1").
		Return(&domain.Document{ID: "doc-1", Status: domain.DocumentStatusVerified}, nil)
	env.doc.On("Reject", mock.Anything, "doc-2", "Blurry scan").
		Return(&domain.Document{ID: "doc-2", Status: domain.DocumentStatusRejected}, nil)

	w := env.do(http.MethodPost, "/v1/admin/documents/doc-1/verify", "admin-token", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/v1/admin/documents/doc-2/reject", "admin-token", []byte(`{"reason":"Blurry scan"}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	csvData := []byte("Name,Email,Post,Status,Submitted Date\n")
	env.report.On("Export", mock.Anything, domain.ApplicationQuery{Status: "approved", Search: "dev"}, "csv").
		Return(&domain.ExportFile{FileName: "applications_20260101_120000.csv", ContentType: "text/csv", Data: csvData}, nil)

	w := env.do(http.MethodGet, "/v1/admin/reports/export?status=approved&search=dev", "admin-token", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="applications_20260101_120000.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, csvData, w.Body.Bytes())
}

func TestStatistics_DefaultBucket(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	env.report.On("GetStatistics", mock.Anything, domain.BucketDay).Return(&domain.Statistics{Total: 3}, nil)

	w := env.do(http.MethodGet, "/v1/admin/reports/statistics", "admin-token", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetRole(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	env.auth.On("AssignRole", mock.Anything, "user-9", domain.RoleAdmin).
		Return(&domain.Profile{ID: "user-9", Role: domain.RoleAdmin}, nil).Once()

	w := env.do(http.MethodPut, "/v1/admin/users/user-9/role", "admin-token", []byte(`{"role":"admin"}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/v1/admin/users/user-9/role", "admin-token", []byte(`{"role":"root"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t, stubHealth{healthy: true})
	env.notify.On("List", mock.Anything, true).Return([]domain.Notification{{ID: "n-1", Title: "Accepted"}}, nil)
	env.notify.On("MarkRead", mock.Anything, "n-404").Return(apperror.NotFound("Notification not found"))
	env.notify.On("MarkAllRead", mock.Anything).Return(int64(4), nil)

	w := env.do(http.MethodGet, "/v1/notifications?unread=true", "cand-token", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPatch, "/v1/notifications/n-404/read", "cand-token", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/v1/notifications/read-all", "cand-token", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, envelope(t, w)["data"].(map[string]any)["updated"])
}
