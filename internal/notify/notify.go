package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"ffmpeg-toolkit/pkg/models"
)

// Notifier posts terminal job results to a configured webhook so an
// external dashboard or automation can react without polling. A Notifier
// with an empty URL is valid and does nothing.
type Notifier struct {
	url        string
	httpClient *http.Client
}

// New creates a notifier with a retrying HTTP client. Transient webhook
// hiccups should not turn a finished transcode into a reported failure.
func New(url string) *Notifier {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil // Silence default debug logger

	return &Notifier{
		url:        url,
		httpClient: retryClient.StandardClient(),
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// PostResult delivers one terminal job result. No-op when disabled.
func (n *Notifier) PostResult(ctx context.Context, payload models.JobResultPayload) error {
	if !n.Enabled() {
		return nil
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}
	return nil
}
