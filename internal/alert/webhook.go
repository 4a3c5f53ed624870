package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tt-go/internal/track"
)

// WebhookAlerter delivers alerts to a Slack-compatible incoming webhook.
// The webhook URL is an opaque credential; it is never logged.
type WebhookAlerter struct {
	url    string
	client *http.Client
}

var _ track.Alerter = (*WebhookAlerter)(nil)

// NewWebhookAlerter creates an alerter posting to url. timeout bounds the
// whole dispatch call; values <= 0 default to 10 seconds.
func NewWebhookAlerter(url string, timeout time.Duration) *WebhookAlerter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookAlerter{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// webhookPayload is the incoming-webhook message body.
type webhookPayload struct {
	Text string `json:"text"`
}

// Dispatch posts text as a JSON message. Any 2xx response counts as
// delivered; anything else reports failure without retrying. The caller
// treats alert failure as a soft warning.
func (a *WebhookAlerter) Dispatch(ctx context.Context, text string) (bool, error) {
	body, err := json.Marshal(webhookPayload{Text: text})
	if err != nil {
		return false, fmt.Errorf("encoding alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("building alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("posting alert: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("alert channel responded with status %d", resp.StatusCode)
	}
	return true, nil
}
