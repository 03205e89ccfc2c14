package storage

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// Rules describes what a bucket accepts
type Rules struct {
	MaxSize    int64
	Extensions map[string]bool
	MIMETypes  map[string]bool
}

// DocumentRules: identity and education documents, 5 MB, PDF or image scans
var DocumentRules = Rules{
	MaxSize: 5 << 20,
	Extensions: map[string]bool{
		".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
	},
	MIMETypes: map[string]bool{
		"application/pdf": true, "image/jpeg": true, "image/png": true,
	},
}

// PhotoRules: profile photos, 2 MB, images only
var PhotoRules = Rules{
	MaxSize: 2 << 20,
	Extensions: map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	},
	MIMETypes: map[string]bool{
		"image/jpeg": true, "image/png": true, "image/webp": true,
	},
}

// Magic byte signatures, keyed by lowercase extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webp": {{0x52, 0x49, 0x46, 0x46}}, // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
}

// ValidationError is a client-facing rejection of an uploaded file
type ValidationError struct {
	TooLarge bool
	Reason   string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validate runs the three checks every upload must pass:
//  1. size and extension whitelist
//  2. magic bytes match the extension
//  3. sniffed MIME type is whitelisted (octet-stream never is)
//
// It returns the detected MIME type.
func (r Rules) Validate(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ValidationError{Reason: "file is empty"}
	}
	if int64(len(data)) > r.MaxSize {
		return "", &ValidationError{
			TooLarge: true,
			Reason:   fmt.Sprintf("file exceeds the %d MB limit", r.MaxSize>>20),
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", &ValidationError{Reason: "file has no extension"}
	}
	if !r.Extensions[ext] {
		return "", &ValidationError{Reason: "file extension not allowed: " + ext}
	}

	if !hasMagicBytes(ext, data) {
		return "", &ValidationError{Reason: "file content does not match extension"}
	}

	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !r.MIMETypes[mime] {
		return "", &ValidationError{Reason: "file type not allowed: " + mime}
	}
	return mime, nil
}

// AllowedExtensions lists the accepted extensions for error messages
func (r Rules) AllowedExtensions() []string {
	out := make([]string, 0, len(r.Extensions))
	for ext := range r.Extensions {
		out = append(out, ext)
	}
	return out
}

func hasMagicBytes(ext string, data []byte) bool {
	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}
