package testutil

import (
	"context"
	"sync"
)

// RecordingAlerter captures dispatched alert texts. It can be made to
// fail by setting Err.
type RecordingAlerter struct {
	mu    sync.Mutex
	Err   error
	texts []string
}

func NewRecordingAlerter() *RecordingAlerter {
	return &RecordingAlerter{}
}

func (a *RecordingAlerter) Dispatch(ctx context.Context, text string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return false, a.Err
	}
	a.texts = append(a.texts, text)
	return true, nil
}

// Texts returns the dispatched alert texts in order.
func (a *RecordingAlerter) Texts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.texts))
	copy(out, a.texts)
	return out
}
