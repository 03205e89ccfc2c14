package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"employee-onboarding-backend/internal/domain"
)

// SupabaseStorage talks to the Supabase Storage REST API with the service key
type SupabaseStorage struct {
	baseURL    string // https://<project>.supabase.co
	serviceKey string
	client     *http.Client
}

var _ domain.FileStorage = (*SupabaseStorage)(nil)

func NewSupabaseStorage(baseURL, serviceKey string) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SupabaseStorage) objectURL(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, seg := range strings.Split(p, "/") {
			escaped = append(escaped, url.PathEscape(seg))
		}
	}
	return s.baseURL + "/storage/v1/object/" + strings.Join(escaped, "/")
}

func (s *SupabaseStorage) do(ctx context.Context, method, target, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage %s %s: status=%d body=%s", method, target, resp.StatusCode, respBody)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Upload stores data at bucket/path, failing if the object exists
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path, contentType string, data []byte) error {
	return s.do(ctx, http.MethodPost, s.objectURL(bucket, path), contentType, bytes.NewReader(data), nil)
}

// Delete removes the given objects; missing objects are ignored by the API
func (s *SupabaseStorage) Delete(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	body, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodDelete, s.objectURL(bucket), "application/json", bytes.NewReader(body), nil)
}

// SignedURL returns a download URL valid for ttl
func (s *SupabaseStorage) SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	body, err := json.Marshal(map[string]int{"expiresIn": int(ttl.Seconds())})
	if err != nil {
		return "", err
	}

	var out struct {
		SignedURL string `json:"signedURL"`
	}
	if err := s.do(ctx, http.MethodPost, s.objectURL("sign", bucket, path), "application/json", bytes.NewReader(body), &out); err != nil {
		return "", err
	}
	if out.SignedURL == "" {
		return "", fmt.Errorf("storage sign %s/%s: empty signed url", bucket, path)
	}
	// The API returns a path relative to /storage/v1
	return s.baseURL + "/storage/v1" + out.SignedURL, nil
}
