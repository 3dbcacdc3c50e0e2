package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// ClientConfig tunes the transport: request timeout, token-bucket rate limit
// and the retry policy. Zero fields fall back to the production defaults.
type ClientConfig struct {
	Timeout     time.Duration
	RateLimit   float64 // requests per second
	Burst       int
	MaxRetries  int
	BackoffBase time.Duration
}

// DefaultClientConfig returns the production transport settings: 30 s
// timeout, 2 req/s with burst 2, 3 retries from a 100 ms backoff base.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:     30 * time.Second,
		RateLimit:   2,
		Burst:       2,
		MaxRetries:  3,
		BackoffBase: 100 * time.Millisecond,
	}
}

// Client talks to the evaluation server. Every request carries the API-KEY
// header; round and end calls additionally carry SESSION-ID. Transport
// failures and 5xx responses are retried with exponential backoff and jitter;
// 4xx responses are protocol errors and never retried.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	apiKey      string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewClient creates a client with the default transport settings. Backoff
// doubles per attempt with 20% jitter.
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithConfig(baseURL, apiKey, DefaultClientConfig(), nil)
}

// NewClientWithConfig creates a client with custom transport settings. Unset
// fields take their defaults; if clock is nil, the system clock is used.
func NewClientWithConfig(baseURL, apiKey string, cfg ClientConfig, clock shared.Clock) *Client {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	defaults := DefaultClientConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaults.RateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaults.BackoffBase
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		clock:       clock,
	}
}

// StartSession opens a new game session and returns its id. A 409 means a
// session is already active for the key; the caller ends it and retries.
func (c *Client) StartSession(ctx context.Context) (string, error) {
	var resp sessionStartResponse
	if err := c.request(ctx, http.MethodPost, "/session/start", "", map[string]interface{}{}, &resp); err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	if resp.SessionID == "" {
		return "", shared.NewProtocolError(0, "session start returned no session_id")
	}
	return resp.SessionID, nil
}

// PlayRound submits one hour's decisions and returns the server's round
// response with events, penalties and the running total cost.
func (c *Client) PlayRound(ctx context.Context, sessionID string, req *RoundRequestDto) (*HourResponseDto, error) {
	var resp HourResponseDto
	if err := c.request(ctx, http.MethodPost, "/play/round", sessionID, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to play round: %w", err)
	}
	return &resp, nil
}

// EndSession closes the session and returns the final hour response. Ending
// early inside the last game day is penalized server-side, so only the
// orchestrator decides when to call this.
func (c *Client) EndSession(ctx context.Context, sessionID string) (*HourResponseDto, error) {
	var resp HourResponseDto
	if err := c.request(ctx, http.MethodPost, "/session/end", sessionID, map[string]interface{}{}, &resp); err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}
	return &resp, nil
}

// addJitter spreads a backoff delay to 80-120% of its nominal value.
func addJitter(d time.Duration) time.Duration {
	jitter := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(d) * jitter)
}

// request makes an HTTP request with rate limiting and exponential backoff
// retries. 4xx responses return a ProtocolError immediately; exhausted
// retries return a TransportError.
func (c *Client) request(ctx context.Context, method, path, sessionID string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		var reqBody io.Reader
		if body != nil {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewBuffer(jsonData)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("API-KEY", c.apiKey)
		if sessionID != "" {
			req.Header.Set("SESSION-ID", sessionID)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		// 5xx is the server's problem and worth retrying.
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (%d)", resp.StatusCode)
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		// 4xx means our submission or session state is wrong. Retrying would
		// repeat the same mistake.
		if resp.StatusCode >= 400 {
			return shared.NewProtocolError(resp.StatusCode, "%s %s: %s", method, path, string(respBody))
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return shared.NewProtocolError(resp.StatusCode, "unmarshal %s response: %v", path, err)
			}
		}
		return nil
	}

	return &shared.TransportError{
		Message:  fmt.Sprintf("%s %s", method, path),
		Attempts: c.maxRetries + 1,
		Err:      lastErr,
	}
}
