package injuryfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/crocodileps/oddsedge/internal/platform/logging"
	"github.com/crocodileps/oddsedge/internal/platform/names"
	"github.com/crocodileps/oddsedge/internal/platform/resilience"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

const responseLimitBytes = 1 << 20

var errInjuryFeedTransient = crerr.New("injury feed transient failure")

// ClientConfig configures the availability client. Zero values fall back to
// conservative defaults.
type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads player availability from the injury feed. It implements
// scorers.AvailabilityFeed; callers treat failures as everyone-available,
// so the client reports errors rather than guessing.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type injuryEnvelope struct {
	Data []injuryEntry `json:"data"`
}

type injuryEntry struct {
	Player string `json:"player"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// unavailableStatuses are the feed states that remove a player from the
// scorer list. Doubtful players stay available.
var unavailableStatuses = map[string]bool{
	"out":       true,
	"injured":   true,
	"suspended": true,
}

// UnavailablePlayers returns absent players keyed by normalized name.
func (c *Client) UnavailablePlayers(ctx context.Context, normalizedTeam string) (map[string]string, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("injury feed base url is not configured")
	}

	raw, err := c.fetchTeam(ctx, normalizedTeam)
	if err != nil {
		return nil, err
	}

	var envelope injuryEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode injury feed payload: %w", err)
	}

	out := make(map[string]string, len(envelope.Data))
	for _, entry := range envelope.Data {
		if !unavailableStatuses[strings.ToLower(strings.TrimSpace(entry.Status))] {
			continue
		}
		key := names.Normalize(entry.Player)
		if key == "" {
			continue
		}
		reason := strings.TrimSpace(entry.Reason)
		if reason == "" {
			reason = strings.ToLower(strings.TrimSpace(entry.Status))
		}
		out[key] = reason
	}
	return out, nil
}

func (c *Client) fetchTeam(ctx context.Context, normalizedTeam string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "injury feed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: injury feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + "/v1/injuries?team=" + url.QueryEscape(normalizedTeam)

	out, err, _ := c.flight.Do(normalizedTeam, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errInjuryFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errInjuryFeedTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 500 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "injury feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build injury feed request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.token != "" {
		req.Header.Set("authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errInjuryFeedTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := io.Copy(buf, io.LimitReader(resp.Body, responseLimitBytes)); err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errInjuryFeedTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		raw := make([]byte, buf.Len())
		copy(raw, buf.B)
		return raw, nil
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: feed status=%d", errInjuryFeedTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("feed status=%d", resp.StatusCode)
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
