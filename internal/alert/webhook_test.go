package alert_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tt-go/internal/alert"
	"tt-go/internal/config"
	"tt-go/internal/track"
)

func TestWebhookAlerter_Dispatch(t *testing.T) {
	t.Run("posts the alert text as JSON", func(t *testing.T) {
		var gotContentType string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		a := alert.NewWebhookAlerter(srv.URL, 5*time.Second)
		delivered, err := a.Dispatch(context.Background(), "Critical deviation: Alice spent 140.0 min")
		if err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		if !delivered {
			t.Error("delivered = false, want true")
		}

		if gotContentType != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", gotContentType)
		}

		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(gotBody, &payload); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if payload.Text != "Critical deviation: Alice spent 140.0 min" {
			t.Errorf("payload text = %q", payload.Text)
		}
	})

	t.Run("non-2xx response is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		a := alert.NewWebhookAlerter(srv.URL, 5*time.Second)
		delivered, err := a.Dispatch(context.Background(), "msg")
		if err == nil {
			t.Fatal("Dispatch() error = nil, want failure")
		}
		if delivered {
			t.Error("delivered = true, want false")
		}
	})

	t.Run("unreachable endpoint is a failure, not a panic", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // shut down before dispatching

		a := alert.NewWebhookAlerter(srv.URL, time.Second)
		delivered, err := a.Dispatch(context.Background(), "msg")
		if err == nil {
			t.Fatal("Dispatch() error = nil, want network failure")
		}
		if delivered {
			t.Error("delivered = true, want false")
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		a := alert.NewWebhookAlerter(srv.URL, 10*time.Second)
		if _, err := a.Dispatch(ctx, "msg"); err == nil {
			t.Error("Dispatch() error = nil, want context deadline failure")
		}
	})
}

func TestNopAlerter_Dispatch(t *testing.T) {
	a := alert.NewNopAlerter(track.NewNopLogger())
	delivered, err := a.Dispatch(context.Background(), "msg")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if delivered {
		t.Error("delivered = true, want false")
	}
}

func TestNewAlerterFromConfig(t *testing.T) {
	logger := track.NewNopLogger()

	t.Run("none and empty yield the no-op alerter", func(t *testing.T) {
		for _, typ := range []string{"none", ""} {
			a, err := alert.NewAlerterFromConfig(config.AlertConfig{Type: typ}, logger)
			if err != nil {
				t.Fatalf("NewAlerterFromConfig(%q) error = %v", typ, err)
			}
			if _, ok := a.(*alert.NopAlerter); !ok {
				t.Errorf("NewAlerterFromConfig(%q) = %T, want *NopAlerter", typ, a)
			}
		}
	})

	t.Run("webhook without URL degrades to no-op", func(t *testing.T) {
		a, err := alert.NewAlerterFromConfig(config.AlertConfig{Type: "webhook"}, logger)
		if err != nil {
			t.Fatalf("NewAlerterFromConfig() error = %v", err)
		}
		if _, ok := a.(*alert.NopAlerter); !ok {
			t.Errorf("NewAlerterFromConfig() = %T, want *NopAlerter", a)
		}
	})

	t.Run("webhook with URL yields the webhook alerter", func(t *testing.T) {
		a, err := alert.NewAlerterFromConfig(config.AlertConfig{
			Type:       "webhook",
			WebhookURL: "https://hooks.example.com/services/T0/B0/x",
		}, logger)
		if err != nil {
			t.Fatalf("NewAlerterFromConfig() error = %v", err)
		}
		if _, ok := a.(*alert.WebhookAlerter); !ok {
			t.Errorf("NewAlerterFromConfig() = %T, want *WebhookAlerter", a)
		}
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		if _, err := alert.NewAlerterFromConfig(config.AlertConfig{Type: "carrier-pigeon"}, logger); err == nil {
			t.Error("NewAlerterFromConfig() error = nil, want unknown type failure")
		}
	})
}
