package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"employee-onboarding-backend/internal/domain"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	Port               string
	DBUrl              string
	SupabaseUrl        string
	SupabaseKey        string
	SupabaseServiceKey string
	SupabaseJWTSecret  string
	FrontendURL        string
	// Object storage
	StorageProvider     string // "supabase" or "s3"
	DocumentsBucket     string
	PhotosBucket        string
	SignedURLTTLSeconds int
	S3Region            string
	S3AccessKeyID       string
	S3SecretAccessKey   string
	S3Endpoint          string // Optional, for S3-compatible providers
	// Onboarding rules
	RequiredDocumentTypes []string
	// SMTP Configuration (status notifications)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	UploadLimitPerMinute     int
	UploadLimitPerDay        int
	// Malware scanning, empty disables it
	ClamAVAddress string
}

func LoadConfig() (*Config, error) {
	// Only effective locally; production relies on real environment variables
	_ = godotenv.Load()

	cfg := &Config{
		Env:   getEnv("APP_ENV", "development"),
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Trailing slash would produce double slashes (.co//auth)
		SupabaseUrl:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseKey:        getEnv("SUPABASE_KEY", getEnv("SUPABASE_ANON_KEY", "")),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", getEnv("SUPABASE_SERVICE_ROLE_KEY", "")),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		// Storage
		StorageProvider:     strings.ToLower(getEnv("STORAGE_PROVIDER", "supabase")),
		DocumentsBucket:     getEnv("DOCUMENTS_BUCKET", "documents"),
		PhotosBucket:        getEnv("PHOTOS_BUCKET", "profile-photos"),
		SignedURLTTLSeconds: getEnvInt("SIGNED_URL_TTL_SECONDS", 3600),
		S3Region:            getEnv("S3_REGION", "ap-south-1"),
		S3AccessKeyID:       getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:          getEnv("S3_ENDPOINT", ""),
		// Onboarding
		RequiredDocumentTypes: getEnvList("REQUIRED_DOCUMENT_TYPES", []string{"pan_card", "aadhar_card"}),
		// SMTP
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "onboarding@example.com"),
		// Redis
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate limiting
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		UploadLimitPerMinute:     getEnvInt("UPLOAD_LIMIT_PER_MINUTE", 10),
		UploadLimitPerDay:        getEnvInt("UPLOAD_LIMIT_PER_DAY", 50),
		ClamAVAddress:            getEnv("CLAMAV_ADDRESS", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast on the variables the service cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.DBUrl == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SupabaseUrl == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}

	switch c.StorageProvider {
	case "supabase", "s3":
	default:
		return errors.New("STORAGE_PROVIDER must be 'supabase' or 's3'")
	}

	// A misspelt type would keep every application below 100%
	var unknown []string
	for _, t := range c.RequiredDocumentTypes {
		if !domain.DocumentType(t).IsValid() {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) > 0 {
		return errors.New("REQUIRED_DOCUMENT_TYPES has unknown types: " + strings.Join(unknown, ", "))
	}
	return nil
}

// DocumentTypes returns the required document types; Validate has checked them
func (c *Config) DocumentTypes() []domain.DocumentType {
	out := make([]domain.DocumentType, 0, len(c.RequiredDocumentTypes))
	for _, t := range c.RequiredDocumentTypes {
		out = append(out, domain.DocumentType(t))
	}
	return out
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
