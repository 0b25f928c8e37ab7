package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// MarketRateClient fetches spot rates from a Frankfurter-style API:
// GET {baseURL}/latest?from={base} -> {"base": "...", "rates": {...}}.
type MarketRateClient struct {
	http    *http.Client
	baseURL string
}

type apiResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (c *MarketRateClient) GetMarketRates(ctx context.Context, base string) (map[string]float64, error) {
	op := func() (map[string]float64, error) {
		return c.fetch(ctx, base)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond

	rates, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (c *MarketRateClient) fetch(ctx context.Context, base string) (map[string]float64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to parse base URL: %w", err))
	}

	q := u.Query()
	q.Set("from", base)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request for currency %q: %w", base, err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for currency %q: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("unexpected status code %d for currency %q: %s", resp.StatusCode, base, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Unknown base currency and similar client errors won't heal on retry
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode response for currency %q: %w", base, err))
	}

	if len(body.Rates) == 0 {
		return nil, backoff.Permanent(fmt.Errorf("api returned no rates for currency %q", base))
	}

	return body.Rates, nil
}

func NewMarketRateClient(httpClient *http.Client, baseURL string) *MarketRateClient {
	return &MarketRateClient{http: httpClient, baseURL: baseURL}
}
