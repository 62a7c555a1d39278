// Package notify delivers applied scoring events to an external webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/config"
	"github.com/yourusername/football-elo/internal/metrics"
	"github.com/yourusername/football-elo/internal/service"
	"golang.org/x/time/rate"
)

const deliveryTimeout = 15 * time.Second

// WebhookNotifier posts applied scoring events to a configured webhook URL.
// Delivery is best effort: retries are handled by the HTTP client and a
// terminal failure is counted and logged, never surfaced to the pipeline.
// It implements service.EventSink.
type WebhookNotifier struct {
	url     string
	client  *retryablehttp.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

type webhookPayload struct {
	Event     string              `json:"event"`
	Timestamp time.Time           `json:"timestamp"`
	Data      service.ScoreUpdate `json:"data"`
}

// NewWebhookNotifier creates a webhook notifier from the notify configuration.
func NewWebhookNotifier(cfg *config.NotifyConfig, logger *logrus.Logger) *WebhookNotifier {
	if logger == nil {
		logger = logrus.New()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 1
	}

	return &WebhookNotifier{
		url:     cfg.WebhookURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		logger:  logger,
	}
}

// PublishScoreUpdate delivers the update asynchronously so the scoring
// pipeline never waits on the remote endpoint.
func (n *WebhookNotifier) PublishScoreUpdate(update service.ScoreUpdate) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		if err := n.deliver(ctx, update); err != nil {
			metrics.WebhookFailuresTotal.Inc()
			n.logger.WithError(err).WithField("url", n.url).Warn("Webhook delivery failed")
			return
		}
		metrics.WebhookDeliveriesTotal.Inc()
	}()
}

func (n *WebhookNotifier) deliver(ctx context.Context, update service.ScoreUpdate) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(webhookPayload{
		Event:     "score_update",
		Timestamp: time.Now().UTC(),
		Data:      update,
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
