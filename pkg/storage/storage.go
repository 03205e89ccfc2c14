// Package storage implements document and avatar object storage on top of
// Supabase Storage or any S3-compatible service.
package storage

import (
	"context"
	"fmt"

	"employee-onboarding-backend/config"
	"employee-onboarding-backend/internal/domain"
)

// New builds the provider selected by STORAGE_PROVIDER
func New(ctx context.Context, cfg *config.Config) (domain.FileStorage, error) {
	switch cfg.StorageProvider {
	case "s3":
		client, err := NewS3Client(ctx, S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return NewS3Storage(client), nil
	case "supabase", "":
		key := cfg.SupabaseServiceKey
		if key == "" {
			key = cfg.SupabaseKey
		}
		return NewSupabaseStorage(cfg.SupabaseUrl, key), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}
