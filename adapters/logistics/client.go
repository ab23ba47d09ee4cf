// Package logistics is the HTTP client for the remote calculation
// endpoint. It speaks the envelope contract of core/calc and is wrapped in
// a circuit breaker so a struggling calculation service degrades into fast
// inline errors instead of piled-up timeouts.
package logistics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"landed-cost/core/calc"
	"landed-cost/internal/errors"
)

// Client calls the calculation service.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "calculate-logistics-costs",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

// Calculate invokes the calculate-logistics-costs endpoint and returns the
// validated calculation. Transport failures, success:false payloads and
// malformed shapes all come back as errors; the caller decides how to
// surface them.
func (c *Client) Calculate(ctx context.Context, req calc.Request) (*calc.Calculation, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, req)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, errors.Network("calculation service unavailable", err)
	}
	if err != nil {
		return nil, err
	}
	return result.(*calc.Calculation), nil
}

func (c *Client) post(ctx context.Context, req calc.Request) (*calc.Calculation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Internal("failed to encode calculation request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/calculate-logistics-costs", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Internal("failed to build calculation request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Network("calculation request failed", err)
	}
	defer resp.Body.Close()

	var envelope calc.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Calculation("failed to decode calculation response", err)
	}

	if !envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = fmt.Sprintf("calculation service returned status %d", resp.StatusCode)
		}
		return nil, errors.New(errors.TypeCalculation, msg)
	}

	if err := envelope.Calculation.Validate(); err != nil {
		return nil, err
	}

	return envelope.Calculation, nil
}
