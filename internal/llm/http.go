package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPCaller posts JSON to a provider endpoint. Server errors and transport
// failures are retried up to MaxRetries times; 429 is never retried here
// and surfaces as a *RateLimitError so the fallback chain can move on.
type HTTPCaller struct {
	Provider   string
	Client     *http.Client
	MaxRetries int
	Backoff    time.Duration
}

// NewHTTPCaller creates an HTTPCaller with the given timeout in seconds (120s if zero).
func NewHTTPCaller(provider string, timeoutSecs, maxRetries int) *HTTPCaller {
	timeout := time.Duration(timeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPCaller{
		Provider:   provider,
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
		Backoff:    500 * time.Millisecond,
	}
}

// PostJSON sends body to endpoint and returns the 200 response body.
func (c *HTTPCaller) PostJSON(ctx context.Context, endpoint string, headers map[string]string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Backoff * time.Duration(attempt)):
			}
		}

		respBody, retry, err := c.post(ctx, endpoint, headers, bodyBytes)
		if err == nil {
			return respBody, nil
		}
		if !retry || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *HTTPCaller) post(ctx context.Context, endpoint string, headers map[string]string, bodyBytes []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("calling %s API: %w", c.Provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return respBody, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		baseErr := fmt.Errorf("%s API error (status %d): %s", c.Provider, resp.StatusCode, Truncate(string(respBody), 500))
		retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, false, NewRateLimitError(c.Provider, baseErr, retryAfter)
	default:
		baseErr := fmt.Errorf("%s API error (status %d): %s", c.Provider, resp.StatusCode, Truncate(string(respBody), 500))
		return nil, resp.StatusCode >= 500, baseErr
	}
}
