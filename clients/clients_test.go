package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lingo/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationClientSubmit(t *testing.T) {
	var got services.ReviewRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reviews", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := NewModerationClient(srv.URL, "secret").SubmitForReview(context.Background(), services.ReviewRequest{VersionID: 3, Reason: "initial release"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.VersionID)
	assert.Equal(t, "initial release", got.Reason)
}

func TestModerationClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewModerationClient(srv.URL, "").SubmitForReview(context.Background(), services.ReviewRequest{})
	assert.ErrorContains(t, err, "503")
}

func TestMediaClientUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		body, _ := io.ReadAll(file)
		assert.Equal(t, "thumb.png", header.Filename)
		assert.Equal(t, "png-bytes", string(body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc123"}`))
	}))
	defer srv.Close()

	url, err := NewMediaClient(srv.URL, "https://cdn.example.com/media/").Upload(context.Background(), "thumb.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/abc123", url)
}
