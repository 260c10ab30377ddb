package injuryfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crocodileps/oddsedge/internal/platform/resilience"
)

func TestUnavailablePlayers_FiltersAndNormalizes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("team"); got != "arsenal" {
			t.Errorf("unexpected team query: %q", got)
		}
		if got := r.Header.Get("authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"player":"Bukayo Saka","status":"OUT","reason":"hamstring"},
			{"player":"Kai Havertz","status":"doubtful","reason":"knock"},
			{"player":"Declan Rice","status":"suspended","reason":""},
			{"player":"","status":"out","reason":"unknown"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "secret", Timeout: time.Second})

	out, err := client.UnavailablePlayers(context.Background(), "arsenal")
	if err != nil {
		t.Fatalf("unavailable players: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 absentees, got %v", out)
	}
	if out["bukayo saka"] != "hamstring" {
		t.Fatalf("unexpected reason: %v", out)
	}
	// Blank reason falls back to the status itself.
	if out["declan rice"] != "suspended" {
		t.Fatalf("unexpected suspension entry: %v", out)
	}
	if _, ok := out["kai havertz"]; ok {
		t.Fatalf("doubtful players must stay available")
	}
}

func TestUnavailablePlayers_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: time.Second, MaxRetries: 2})

	out, err := client.UnavailablePlayers(context.Background(), "arsenal")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %v", out)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestUnavailablePlayers_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: time.Second, MaxRetries: 3})

	if _, err := client.UnavailablePlayers(context.Background(), "arsenal"); err == nil {
		t.Fatalf("expected error on 401")
	}
	if calls.Load() != 1 {
		t.Fatalf("401 must not be retried, got %d attempts", calls.Load())
	}
}

func TestUnavailablePlayers_OpenBreakerRejects(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.UnavailablePlayers(context.Background(), "arsenal"); err == nil {
		t.Fatalf("expected first request to fail")
	}
	if _, err := client.UnavailablePlayers(context.Background(), "arsenal"); err == nil {
		t.Fatalf("expected open breaker to reject")
	}
}
