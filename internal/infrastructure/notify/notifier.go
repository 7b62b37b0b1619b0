package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"youtube_trend_collector/config"
	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/logger"
)

// NewFromConfig returns a webhook notifier when a URL is configured,
// otherwise a log-only notifier.
func NewFromConfig(cfg *config.Config) domain.RunNotifier {
	if cfg != nil && cfg.WebhookURL != "" {
		return NewWebhookNotifier(cfg.WebhookURL)
	}
	return LogNotifier{}
}

// LogNotifier writes the run outcome to the application log.
type LogNotifier struct{}

// NotifyRunCompleted logs a one-line run summary.
func (LogNotifier) NotifyRunCompleted(_ context.Context, report *domain.RunReport) error {
	logger.Info().Printf("collection run completed: status=%s keywords=%d videos=%d duration=%s",
		report.Status, report.KeywordCount, report.TotalVideos,
		report.CompletedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return nil
}

// WebhookNotifier POSTs the full run report, including the per-keyword
// breakdown, to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier with a pooled HTTP client.
func NewWebhookNotifier(url string) *WebhookNotifier {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Transport: transport,
			Timeout:   15 * time.Second,
		},
	}
}

// NotifyRunCompleted delivers the report as JSON. Errors are returned for
// the caller to log; they never affect the recorded run.
func (n *WebhookNotifier) NotifyRunCompleted(ctx context.Context, report *domain.RunReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver run report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
