package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// DocumentPath builds {userId}/{applicationId}/{documentType}/{file}
func DocumentPath(userID, applicationID, documentType, filename string, now time.Time) string {
	return path.Join(userID, applicationID, documentType, timestamped(filename, now))
}

// AvatarPath builds {userId}/{file}; avatars are always re-encoded to JPEG
func AvatarPath(userID, filename string, now time.Time) string {
	base := SanitizeFilename(strings.TrimSuffix(filename, path.Ext(filename)))
	return path.Join(userID, fmt.Sprintf("%d_%s.jpg", now.UnixNano(), base))
}

func timestamped(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	base := SanitizeFilename(strings.TrimSuffix(filename, path.Ext(filename)))
	return fmt.Sprintf("%d_%s%s", now.UnixNano(), base, ext)
}

// SanitizeFilename keeps ASCII letters, digits, '_' and '-'; spaces become
// underscores. Storage keys must be ASCII.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			result.WriteRune(r)
		}
	}

	if result.Len() == 0 {
		return "file"
	}
	if result.Len() > 100 {
		return result.String()[:100]
	}
	return result.String()
}
