package alert

import (
	"context"

	"tt-go/internal/track"
)

// NopAlerter is used when no alert channel is configured. Dispatch logs the
// skipped alert and reports non-delivery without error, so a missing
// credential degrades to a no-op instead of a failure.
type NopAlerter struct {
	logger track.Logger
}

var _ track.Alerter = (*NopAlerter)(nil)

// NewNopAlerter creates a no-op alerter that logs skipped dispatches.
func NewNopAlerter(logger track.Logger) *NopAlerter {
	return &NopAlerter{logger: logger}
}

func (a *NopAlerter) Dispatch(_ context.Context, text string) (bool, error) {
	a.logger.Info("alert channel not configured, skipping dispatch", "text", text)
	return false, nil
}
