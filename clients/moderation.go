package clients

import (
	"context"
	"fmt"
	"time"

	"lingo/services"

	"github.com/go-resty/resty/v2"
)

// ModerationClient submits published versions to the content review service.
type ModerationClient struct {
	client *resty.Client
}

func NewModerationClient(baseURL, apiKey string) *ModerationClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetHeader("X-Api-Key", apiKey)
	}
	return &ModerationClient{client: client}
}

// SubmitForReview posts the version to /reviews. The decision is delivered later
// through the admin moderation endpoint.
func (m *ModerationClient) SubmitForReview(ctx context.Context, req services.ReviewRequest) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/reviews")
	if err != nil {
		return fmt.Errorf("moderation request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("moderation service returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
