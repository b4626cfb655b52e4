package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"ndisfraud/internal/domain"
	"ndisfraud/internal/port"
)

// circuitState tracks rate-limit backoff for a single runtime.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackRuntime tries runtimes in order, skipping those with open circuits.
// It implements port.LLMRuntime.
type FallbackRuntime struct {
	runtimes []port.LLMRuntime
	circuits []*circuitState
	names    []string
	logger   *zap.Logger
}

// NewFallbackRuntime creates a FallbackRuntime from an ordered list of runtimes and their names.
func NewFallbackRuntime(runtimes []port.LLMRuntime, names []string, logger *zap.Logger) *FallbackRuntime {
	circuits := make([]*circuitState, len(runtimes))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackRuntime{
		runtimes: runtimes,
		circuits: circuits,
		names:    names,
		logger:   logger,
	}
}

func (f *FallbackRuntime) Invoke(ctx context.Context, input port.InvokeInput) (*port.InvokeOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, rt := range f.runtimes {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.logger.Info("skipping llm provider, circuit open",
				zap.String("provider", f.names[i]),
				zap.Time("reset_at", resetAt))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := rt.Invoke(ctx, input)
		if err == nil {
			return out, nil
		}

		f.logger.Warn("llm provider failed", zap.String("provider", f.names[i]), zap.Error(err))
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, ctx.Err())
		}

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("%w: all providers rate limited", domain.ErrLLMUnavailable), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("%w: all providers failed: %w", domain.ErrLLMUnavailable, lastErr)
}
