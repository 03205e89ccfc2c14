package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventInvalidToken       EventType = "invalid_token"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventAccessDenied       EventType = "access_denied"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUploadRejected     EventType = "upload_rejected"
	EventMalwareDetected    EventType = "malware_detected"
	EventRoleChanged        EventType = "role_changed"
	EventApplicationDeleted EventType = "application_deleted"
)

// eventLevels maps each event to the level it is logged at
var eventLevels = map[EventType]zapcore.Level{
	EventInvalidToken:       zapcore.WarnLevel,
	EventUnauthorizedAccess: zapcore.WarnLevel,
	EventAccessDenied:       zapcore.WarnLevel,
	EventRateLimitTriggered: zapcore.WarnLevel,
	EventUploadRejected:     zapcore.WarnLevel,
	EventMalwareDetected:    zapcore.ErrorLevel,
	EventRoleChanged:        zapcore.InfoLevel,
	EventApplicationDeleted: zapcore.InfoLevel,
}

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string // Masked or hashed for PII
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes security events as structured zap records
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewSecurityLogger builds a JSON zap logger writing to stdout
func NewSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewSecurityLoggerWith(logger, serviceName, environment)
}

// NewSecurityLoggerWith wraps an existing zap logger, used by tests with an observer core
func NewSecurityLoggerWith(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// NopSecurityLogger discards every event
func NopSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWith(zap.NewNop(), "", "")
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level, ok := eventLevels[event.Event]
	if !ok {
		level = zapcore.WarnLevel
	}

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogUnauthorized logs a request rejected for a missing or invalid token
func (sl *SecurityLogger) LogUnauthorized(ctx context.Context, ip, userAgent, requestID, path, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventUnauthorizedAccess,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Details:   map[string]interface{}{"path": path, "reason": reason},
	})
}

// LogAccessDenied logs an authenticated user touching a resource they do not own
func (sl *SecurityLogger) LogAccessDenied(ctx context.Context, userID, resource, resourceID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventAccessDenied,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		Details:      map[string]interface{}{"resource": resource, "resource_id": resourceID},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogUploadRejected logs a file that failed validation
func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, userID, filename, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadRejected,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		Details:      map[string]interface{}{"filename": filename, "reason": reason},
	})
}

// LogMalwareDetected logs an upload the scanner flagged
func (sl *SecurityLogger) LogMalwareDetected(ctx context.Context, userID, filename, threat, scanner string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventMalwareDetected,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		Details:      map[string]interface{}{"filename": filename, "threat": threat, "scanner": scanner},
	})
}

// LogRoleChanged logs an admin role assignment
func (sl *SecurityLogger) LogRoleChanged(ctx context.Context, adminID, targetID, role string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRoleChanged,
		SubjectType:  "user_id",
		SubjectValue: HashValue(targetID),
		Details:      map[string]interface{}{"admin": HashValue(adminID), "role": role},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue creates a short SHA256 digest of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
