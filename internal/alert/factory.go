package alert

import (
	"fmt"
	"time"

	"tt-go/internal/config"
	"tt-go/internal/track"
)

// NewAlerterFromConfig creates an Alerter based on the alert config type.
// A webhook config without a URL falls back to the no-op alerter rather than
// failing: absent credentials must never crash a submission.
func NewAlerterFromConfig(cfg config.AlertConfig, logger track.Logger) (track.Alerter, error) {
	switch cfg.Type {
	case "none", "":
		return NewNopAlerter(logger), nil
	case "webhook":
		if cfg.WebhookURL == "" {
			logger.Warn("alert type is webhook but no webhook_url is set, alerts disabled")
			return NewNopAlerter(logger), nil
		}
		return NewWebhookAlerter(cfg.WebhookURL, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown alert type: %s", cfg.Type)
	}
}
