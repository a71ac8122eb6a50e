// Package fisapi talks to the federation calendar API. Every call carries a
// bounded timeout and a bounded exponential retry for transient failures;
// timeouts surface as ErrTimeout rather than a generic transport error.
package fisapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valais-ski/fis-inscriptions-api/internal/config"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
)

var (
	ErrTimeout       = errors.New("federation api request timed out")
	ErrEventNotFound = errors.New("event not found upstream")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries uint64
}

func NewClient(conf *config.FISConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: conf.Timeout},
		baseURL:    conf.BaseURL,
		maxRetries: conf.MaxRetries,
	}
}

// GetEvent fetches the authoritative event snapshot for a codex within a
// season. 404s are permanent; network errors and 5xx are retried.
func (c *Client) GetEvent(ctx context.Context, codex, seasonCode string) (domain.EventData, error) {
	requestID := uuid.NewString()

	var event domain.EventData

	operation := func() error {
		data, err := c.fetch(ctx, codex, seasonCode, requestID)
		if err != nil {
			if errors.Is(err, ErrEventNotFound) {
				return backoff.Permanent(err)
			}
			zap.L().Warn("federation api call failed, may retry",
				zap.String("request_id", requestID),
				zap.String("codex", codex),
				zap.Error(err))
			return err
		}

		return json.Unmarshal(data, &event)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return domain.EventData{}, err
	}

	return event, nil
}

func (c *Client) fetch(ctx context.Context, codex, seasonCode, requestID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%v/events?codex=%v&seasonCode=%v",
		c.baseURL, url.QueryEscape(codex), url.QueryEscape(seasonCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		return nil, fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrEventNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("federation api returned status %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}

	return body, nil
}
