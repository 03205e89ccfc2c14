package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseStorage(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/storage/v1/object/sign/documents/u/a/pan_card/1_pan.pdf":
			var body map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 3600, body["expiresIn"])
			_, _ = w.Write([]byte(`{"signedURL":"/object/sign/documents/u/a/pan_card/1_pan.pdf?token=abc"}`))
		case r.Method == http.MethodPost:
			assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
			data, _ := io.ReadAll(r.Body)
			assert.Equal(t, "%PDF-", string(data))
			_, _ = w.Write([]byte(`{"Key":"documents/u/a/pan_card/1_pan.pdf"}`))
		case r.Method == http.MethodDelete:
			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"u/a/pan_card/1_pan.pdf"}, body["prefixes"])
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL+"/", "service-key")
	ctx := context.Background()
	path := "u/a/pan_card/1_pan.pdf"

	require.NoError(t, s.Upload(ctx, "documents", path, "application/pdf", []byte("%PDF-")))

	url, err := s.SignedURL(ctx, "documents", path, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/sign/documents/u/a/pan_card/1_pan.pdf?token=abc", url)

	require.NoError(t, s.Delete(ctx, "documents", path))
	require.NoError(t, s.Delete(ctx, "documents"))

	assert.Equal(t, []string{
		"POST /storage/v1/object/documents/u/a/pan_card/1_pan.pdf",
		"POST /storage/v1/object/sign/documents/u/a/pan_card/1_pan.pdf",
		"DELETE /storage/v1/object/documents",
	}, calls)
}

func TestSupabaseStorage_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Duplicate"}`))
	}))
	defer srv.Close()

	err := NewSupabaseStorage(srv.URL, "k").Upload(context.Background(), "documents", "x.pdf", "application/pdf", []byte("%PDF-"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=409")
}
