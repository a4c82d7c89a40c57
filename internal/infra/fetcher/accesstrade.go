// Package fetcher implements the upstream adapter for the AccessTrade
// offer API. It is the only package that talks to the affiliate network;
// everything above it sees the OfferFetcher contract.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"offersync/internal/domain/entity"
	"offersync/internal/resilience/circuitbreaker"
	"offersync/internal/resilience/retry"
	"offersync/internal/usecase/sync"
)

const offersPath = "/v1/offers_informations"

// AccessTradeFetcher retrieves the current offer set from AccessTrade.
// Requests go through a client-side rate limiter, a circuit breaker and
// bounded retries, in that order: the limiter throttles every attempt,
// the breaker fails fast when the upstream is down, and the retry layer
// re-runs transient failures.
type AccessTradeFetcher struct {
	cfg     FeedConfig
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter

	// Retry controls the backoff policy. Overridable in tests.
	Retry retry.Config
}

// NewAccessTradeFetcher creates a fetcher with the offer feed's
// production resilience policy.
func NewAccessTradeFetcher(cfg FeedConfig) *AccessTradeFetcher {
	return &AccessTradeFetcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.New(circuitbreaker.OfferFeedConfig()),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		Retry:   retry.OfferFeedConfig(),
	}
}

// FetchOffers implements sync.OfferFetcher. Transport and status
// failures come back wrapping sync.ErrUpstreamUnavailable; a response
// that arrives but cannot be decoded wraps sync.ErrUpstreamFormat and
// is not retried.
func (f *AccessTradeFetcher) FetchOffers(ctx context.Context) ([]*entity.Offer, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var offers []*entity.Offer
	err := retry.WithBackoff(ctx, f.Retry, func() error {
		result, err := f.breaker.Execute(func() (interface{}, error) {
			return f.fetchOnce(ctx)
		})
		if err != nil {
			return err
		}
		offers = result.([]*entity.Offer)
		return nil
	})
	if err != nil {
		if errors.Is(err, sync.ErrUpstreamFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", sync.ErrUpstreamUnavailable, err)
	}
	return offers, nil
}

func (f *AccessTradeFetcher) fetchOnce(ctx context.Context) ([]*entity.Offer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.offersURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+f.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("offer feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    "offer feed request failed",
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", sync.ErrUpstreamFormat, f.cfg.MaxBodySize)
	}

	var envelope struct {
		Data []*entity.Offer `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", sync.ErrUpstreamFormat, err)
	}

	if envelope.Data == nil {
		return []*entity.Offer{}, nil
	}
	return envelope.Data, nil
}

func (f *AccessTradeFetcher) offersURL() string {
	u := f.cfg.BaseURL + offersPath
	if f.cfg.Domain != "" {
		u += "?domain=" + url.QueryEscape(f.cfg.Domain)
	}
	return u
}
