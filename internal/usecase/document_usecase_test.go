package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/internal/usecase"
	"employee-onboarding-backend/pkg/security"
	"employee-onboarding-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

// memDocumentRepo keeps documents in memory so multi-step flows can be
// exercised without scripting every call.
type memDocumentRepo struct {
	mu   sync.Mutex
	seq  int
	docs []domain.Document
}

func (r *memDocumentRepo) Create(ctx context.Context, doc *domain.Document, replaceID string, activity *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if replaceID != "" {
		r.remove(replaceID)
	}
	r.seq++
	doc.ID = fmt.Sprintf("doc-%d", r.seq)
	doc.CreatedAt = time.Now()
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *memDocumentRepo) remove(id string) {
	for i := range r.docs {
		if r.docs[i].ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return
		}
	}
}

func (r *memDocumentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == id {
			doc := d
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memDocumentRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, d := range r.docs {
		if d.ApplicationID == applicationID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDocumentRepo) ListAll(ctx context.Context) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Document(nil), r.docs...), nil
}

func (r *memDocumentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(id)
	return nil
}

func (r *memDocumentRepo) UpdateStatus(ctx context.Context, review domain.DocumentReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.docs {
		if r.docs[i].ID == review.DocumentID {
			r.docs[i].Status = review.Status
			r.docs[i].RejectionReason = review.RejectionReason
			return nil
		}
	}
	return domain.ErrNotFound
}

type infectedScanner struct{}

func (infectedScanner) Scan(ctx context.Context, filename string, data []byte) antivirus.ScanResult {
	return antivirus.ScanResult{Infected: true, ThreatName: "Eicar-Test-Signature", ScannerName: "test"}
}

func (infectedScanner) Name() string { return "test" }

var requiredTypes = []domain.DocumentType{domain.DocumentTypePANCard, domain.DocumentTypeAadharCard}

func newDocumentUsecase(docs domain.DocumentRepository, apps *MockApplicationRepo, files *MockFileStorage, scanner antivirus.Scanner) domain.DocumentUsecase {
	settings := usecase.StorageSettings{DocumentsBucket: "documents", PhotosBucket: "profile-photos", SignedURLTTL: time.Hour}
	return usecase.NewDocumentUsecase(docs, apps, files, scanner, settings, requiredTypes, security.NopSecurityLogger())
}

func submittedApp() *domain.Application {
	return &domain.Application{ID: "app-1", UserID: "user1", Status: domain.ApplicationStatusSubmitted}
}

func TestDocumentProgressScenario(t *testing.T) {
	docs := &memDocumentRepo{}
	apps := new(MockApplicationRepo)
	files := new(MockFileStorage)
	uc := newDocumentUsecase(docs, apps, files, nil)

	apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)
	files.On("Upload", mock.Anything, "documents", mock.Anything, "application/pdf", pdfBytes).Return(nil)
	apps.On("UpdateProgress", mock.Anything, "app-1", 0).Return(nil).Twice()
	apps.On("UpdateProgress", mock.Anything, "app-1", 50).Return(nil).Once()
	apps.On("UpdateProgress", mock.Anything, "app-1", 100).Return(nil).Once()

	ctx := candidateCtx("user1")
	pan, err := uc.Upload(ctx, domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusPending, pan.Status)
	assert.True(t, strings.HasPrefix(pan.StoragePath, "user1/app-1/pan_card/"))

	aadhar, err := uc.Upload(ctx, domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypeAadharCard, FileName: "aadhar.pdf", Data: pdfBytes})
	require.NoError(t, err)

	verified, err := uc.Verify(adminCtx(), pan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, "admin-1", *verified.VerifiedBy)

	_, err = uc.Verify(adminCtx(), aadhar.ID)
	require.NoError(t, err)

	apps.AssertExpectations(t)
}

func TestDocumentUploadRules(t *testing.T) {
	t.Run("Should refuse uploads to another candidate's application", func(t *testing.T) {
		apps := new(MockApplicationRepo)
		files := new(MockFileStorage)
		uc := newDocumentUsecase(&memDocumentRepo{}, apps, files, nil)
		apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)

		_, err := uc.Upload(candidateCtx("user2"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: pdfBytes})
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
		files.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should refuse uploads while under review", func(t *testing.T) {
		apps := new(MockApplicationRepo)
		uc := newDocumentUsecase(&memDocumentRepo{}, apps, new(MockFileStorage), nil)
		app := submittedApp()
		app.Status = domain.ApplicationStatusUnderReview
		apps.On("GetByID", mock.Anything, "app-1").Return(app, nil)

		_, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: pdfBytes})
		assert.Equal(t, http.StatusConflict, appCode(t, err))
	})

	t.Run("Should reject unknown document types", func(t *testing.T) {
		apps := new(MockApplicationRepo)
		uc := newDocumentUsecase(&memDocumentRepo{}, apps, new(MockFileStorage), nil)

		_, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: "passport", FileName: "p.pdf", Data: pdfBytes})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
		assert.Empty(t, apps.Calls)
	})

	t.Run("Should reject files whose content does not match the extension", func(t *testing.T) {
		apps := new(MockApplicationRepo)
		uc := newDocumentUsecase(&memDocumentRepo{}, apps, new(MockFileStorage), nil)
		apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)

		_, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: []byte("MZ not a pdf")})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should answer 413 for oversized files", func(t *testing.T) {
		apps := new(MockApplicationRepo)
		uc := newDocumentUsecase(&memDocumentRepo{}, apps, new(MockFileStorage), nil)
		apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)

		big := append(append([]byte{}, pdfBytes...), make([]byte, 5<<20)...)
		_, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: big})
		assert.Equal(t, http.StatusRequestEntityTooLarge, appCode(t, err))
	})

	t.Run("Should reject infected files", func(t *testing.T) {
		apps := new(MockApplicationRepo)
		files := new(MockFileStorage)
		uc := newDocumentUsecase(&memDocumentRepo{}, apps, files, infectedScanner{})
		apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)

		_, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: pdfBytes})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
		assert.Empty(t, files.Calls)
	})

	t.Run("Should not replace a verified document", func(t *testing.T) {
		docs := &memDocumentRepo{docs: []domain.Document{
			{ID: "doc-9", ApplicationID: "app-1", UserID: "user1", DocumentType: domain.DocumentTypePANCard, Status: domain.DocumentStatusVerified},
		}}
		apps := new(MockApplicationRepo)
		files := new(MockFileStorage)
		uc := newDocumentUsecase(docs, apps, files, nil)
		apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)

		_, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: pdfBytes})
		assert.Equal(t, http.StatusConflict, appCode(t, err))
		assert.Empty(t, files.Calls)
	})
}

func TestDocumentReplaceRejected(t *testing.T) {
	docs := &memDocumentRepo{seq: 9, docs: []domain.Document{
		{ID: "doc-9", ApplicationID: "app-1", UserID: "user1", DocumentType: domain.DocumentTypePANCard, Status: domain.DocumentStatusRejected, StoragePath: "user1/app-1/pan_card/old.pdf"},
	}}
	apps := new(MockApplicationRepo)
	files := new(MockFileStorage)
	uc := newDocumentUsecase(docs, apps, files, nil)
	apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)
	apps.On("UpdateProgress", mock.Anything, "app-1", 0).Return(nil)
	files.On("Upload", mock.Anything, "documents", mock.Anything, "application/pdf", mock.Anything).Return(nil)
	files.On("Delete", mock.Anything, "documents", []string{"user1/app-1/pan_card/old.pdf"}).Return(nil)

	doc, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusPending, doc.Status)

	all, _ := docs.ListByApplication(context.Background(), "app-1")
	require.Len(t, all, 1)
	assert.Equal(t, doc.ID, all[0].ID)
	files.AssertExpectations(t)
}

type failingDocumentRepo struct {
	memDocumentRepo
}

func (r *failingDocumentRepo) Create(ctx context.Context, doc *domain.Document, replaceID string, activity *domain.ActivityLog) error {
	return errors.New("connection reset")
}

func TestDocumentUploadCompensation(t *testing.T) {
	apps := new(MockApplicationRepo)
	files := new(MockFileStorage)
	uc := newDocumentUsecase(&failingDocumentRepo{}, apps, files, nil)
	apps.On("GetByID", mock.Anything, "app-1").Return(submittedApp(), nil)

	var uploadedPath string
	files.On("Upload", mock.Anything, "documents", mock.Anything, "application/pdf", mock.Anything).
		Run(func(args mock.Arguments) { uploadedPath = args.String(2) }).Return(nil)
	files.On("Delete", mock.Anything, "documents", mock.Anything).Return(nil)

	_, err := uc.Upload(candidateCtx("user1"), domain.UploadDocumentRequest{ApplicationID: "app-1", DocumentType: domain.DocumentTypePANCard, FileName: "pan.pdf", Data: pdfBytes})
	assert.Equal(t, http.StatusInternalServerError, appCode(t, err))

	require.NotEmpty(t, uploadedPath)
	files.AssertCalled(t, "Delete", mock.Anything, "documents", []string{uploadedPath})
	apps.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentDeleteAndSignedURL(t *testing.T) {
	newDocs := func() *memDocumentRepo {
		return &memDocumentRepo{docs: []domain.Document{
			{ID: "doc-1", ApplicationID: "app-1", UserID: "user1", DocumentType: domain.DocumentTypePANCard, Status: domain.DocumentStatusPending, StoragePath: "user1/app-1/pan_card/a.pdf"},
			{ID: "doc-2", ApplicationID: "app-1", UserID: "user1", DocumentType: domain.DocumentTypeAadharCard, Status: domain.DocumentStatusVerified, StoragePath: "user1/app-1/aadhar_card/b.pdf"},
		}}
	}

	t.Run("Should delete a pending document and recompute progress", func(t *testing.T) {
		apps := new(MockApplicationRepo)
		files := new(MockFileStorage)
		uc := newDocumentUsecase(newDocs(), apps, files, nil)
		files.On("Delete", mock.Anything, "documents", []string{"user1/app-1/pan_card/a.pdf"}).Return(nil)
		apps.On("UpdateProgress", mock.Anything, "app-1", 50).Return(nil)

		require.NoError(t, uc.Delete(candidateCtx("user1"), "doc-1"))
		files.AssertExpectations(t)
		apps.AssertExpectations(t)
	})

	t.Run("Should keep verified documents", func(t *testing.T) {
		uc := newDocumentUsecase(newDocs(), new(MockApplicationRepo), new(MockFileStorage), nil)
		err := uc.Delete(candidateCtx("user1"), "doc-2")
		assert.Equal(t, http.StatusConflict, appCode(t, err))
	})

	t.Run("Should not sign another candidate's document", func(t *testing.T) {
		files := new(MockFileStorage)
		uc := newDocumentUsecase(newDocs(), new(MockApplicationRepo), files, nil)
		_, err := uc.SignedURL(candidateCtx("user2"), "doc-1")
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
		assert.Empty(t, files.Calls)
	})

	t.Run("Should sign for admins", func(t *testing.T) {
		files := new(MockFileStorage)
		uc := newDocumentUsecase(newDocs(), new(MockApplicationRepo), files, nil)
		files.On("SignedURL", mock.Anything, "documents", "user1/app-1/pan_card/a.pdf", time.Hour).Return("https://signed.example/a", nil)

		signed, err := uc.SignedURL(adminCtx(), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "https://signed.example/a", signed.URL)
		assert.WithinDuration(t, time.Now().Add(time.Hour), signed.ExpiresAt, time.Minute)
	})

	t.Run("Should require a reason to reject", func(t *testing.T) {
		uc := newDocumentUsecase(newDocs(), new(MockApplicationRepo), new(MockFileStorage), nil)
		_, err := uc.Reject(adminCtx(), "doc-1", "")
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should stamp the rejection reason", func(t *testing.T) {
		docs := newDocs()
		apps := new(MockApplicationRepo)
		apps.On("UpdateProgress", mock.Anything, "app-1", 50).Return(nil)
		uc := newDocumentUsecase(docs, apps, new(MockFileStorage), nil)

		doc, err := uc.Reject(adminCtx(), "doc-1", "Blurry scan")
		require.NoError(t, err)
		assert.Equal(t, domain.DocumentStatusRejected, doc.Status)
		assert.Equal(t, "Blurry scan", *doc.RejectionReason)
	})
}
