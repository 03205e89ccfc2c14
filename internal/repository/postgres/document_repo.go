package postgres

import (
	"context"
	"fmt"
	"time"

	"employee-onboarding-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type documentRepo struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepo{db: db}
}

const documentSelect = `
	SELECT id, application_id, user_id, document_type, file_name, storage_path, file_size,
		mime_type, status, verified_by, verified_at, rejection_reason, created_at
	FROM documents`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var (
		d       domain.Document
		docType string
		status  string
	)
	err := row.Scan(
		&d.ID, &d.ApplicationID, &d.UserID, &docType, &d.FileName, &d.StoragePath, &d.FileSize,
		&d.MimeType, &status, &d.VerifiedBy, &d.VerifiedAt, &d.RejectionReason, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.DocumentType = domain.DocumentType(docType)
	d.Status = domain.NormalizeDocumentStatus(status)
	return &d, nil
}

func (r *documentRepo) queryList(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// Create inserts the metadata row, dropping the replaced row first when replaceID is set
func (r *documentRepo) Create(ctx context.Context, doc *domain.Document, replaceID string, activity *domain.ActivityLog) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusPending
	}
	doc.CreatedAt = time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if replaceID != "" {
		// A verified document is never replaced, even if it got verified meanwhile
		tag, err := tx.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND status <> 'verified'`, replaceID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrStatusConflict
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (id, application_id, user_id, document_type, file_name, storage_path,
			file_size, mime_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		doc.ID, doc.ApplicationID, doc.UserID, string(doc.DocumentType), doc.FileName, doc.StoragePath,
		doc.FileSize, doc.MimeType, string(doc.Status), doc.CreatedAt)
	if err != nil {
		return mapError(err)
	}

	if err := insertActivity(ctx, tx, activity); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	d, err := scanDocument(r.db.QueryRow(ctx, documentSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

func (r *documentRepo) ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error) {
	return r.queryList(ctx, documentSelect+` WHERE application_id = $1 ORDER BY created_at ASC`, applicationID)
}

func (r *documentRepo) ListAll(ctx context.Context) ([]domain.Document, error) {
	return r.queryList(ctx, documentSelect+` ORDER BY created_at ASC`)
}

// Delete removes an unverified document row
func (r *documentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND status <> 'verified'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStatusConflict
	}
	return nil
}

// UpdateStatus records a verify/reject decision with its audit, timeline and notification rows
func (r *documentRepo) UpdateStatus(ctx context.Context, review domain.DocumentReview) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE documents
		SET status = $2, verified_by = $3, verified_at = $4, rejection_reason = $5
		WHERE id = $1`,
		review.DocumentID, string(review.Status), review.ReviewedBy, review.ReviewedAt, review.RejectionReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := insertAudit(ctx, tx, review.Audit); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	if err := insertActivity(ctx, tx, review.Activity); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	if err := insertNotification(ctx, tx, review.Notification); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return tx.Commit(ctx)
}
