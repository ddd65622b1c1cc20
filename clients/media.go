package clients

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// MediaClient uploads files to the media service, which answers with an opaque id.
type MediaClient struct {
	client    *resty.Client
	publicURL string
}

func NewMediaClient(serviceURL, publicURL string) *MediaClient {
	return &MediaClient{
		client:    resty.New().SetBaseURL(serviceURL).SetTimeout(2 * time.Minute),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

type uploadResponse struct {
	ID string `json:"id"`
}

// Upload sends the file and returns the URL it will be served from.
func (m *MediaClient) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var out uploadResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, r).
		SetResult(&out).
		Post("/files")
	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("media service returned %d: %s", resp.StatusCode(), resp.String())
	}
	if out.ID == "" {
		return "", fmt.Errorf("media service returned no id")
	}
	return m.publicURL + "/" + out.ID, nil
}
