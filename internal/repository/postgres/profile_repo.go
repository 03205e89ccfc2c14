package postgres

import (
	"context"
	"time"

	"employee-onboarding-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// Create inserts the profile; an existing row with the same id is left untouched
func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) error {
	now := time.Now()
	if p.Role == "" {
		p.Role = domain.RoleCandidate
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, email, full_name, phone, role, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Email, p.FullName, p.Phone, p.Role, p.AvatarURL, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, email, full_name, phone, role, avatar_url, created_at, updated_at
		FROM profiles WHERE id = $1`, id).Scan(
		&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Role, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *profileRepo) Update(ctx context.Context, p *domain.Profile) error {
	p.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET full_name = $2, phone = $3, role = $4, avatar_url = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.FullName, p.Phone, p.Role, p.AvatarURL, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
