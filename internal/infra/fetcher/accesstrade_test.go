package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offersync/internal/resilience/retry"
	"offersync/internal/usecase/sync"
	"offersync/tests/fixtures"
)

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:    2,
		InitialDelay:   time.Millisecond,
		MaxDelay:       time.Millisecond,
		Multiplier:     1.0,
		JitterFraction: 0,
	}
}

func testFetcher(t *testing.T, srvURL string) *AccessTradeFetcher {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = srvURL
	cfg.Token = "secret-token"
	cfg.Domain = "deals.example.vn"
	cfg.RateLimit = 1000 // tests must not wait on the limiter
	cfg.RateBurst = 100
	require.NoError(t, cfg.Validate())

	f := NewAccessTradeFetcher(cfg)
	f.Retry = fastRetry()
	return f
}

func TestFetchOffers(t *testing.T) {
	var gotAuth, gotDomain string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDomain = r.URL.Query().Get("domain")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{
					"id": "sale123",
					"name": "Sale lớn tháng 6",
					"merchant": "shopee",
					"end_time": "2025-06-30 23:59:59",
					"coupons": [
						{"coupon_code": "JUNE50", "coupon_desc": "giảm 50%-tối đa 200.000 vnđ"}
					],
					"categories": [
						{"category_name": "fashion", "category_name_show": "Thời trang", "category_no": "3"}
					]
				},
				{
					"id": "sale456",
					"merchant": "lazada",
					"end_time": "2025-07-01"
				}
			]
		}`))
	}))
	defer srv.Close()

	f := testFetcher(t, srv.URL)
	offers, err := f.FetchOffers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Token secret-token", gotAuth)
	assert.Equal(t, "deals.example.vn", gotDomain)

	require.Len(t, offers, 2)
	assert.Equal(t, "sale123", offers[0].ID)
	assert.Equal(t, "shopee", offers[0].Merchant)
	require.Len(t, offers[0].Coupons, 1)
	assert.Equal(t, "JUNE50", offers[0].Coupons[0].Code)
	require.Len(t, offers[0].Categories, 1)
	assert.Equal(t, "Thời trang", offers[0].Categories[0].DisplayName)
	assert.Equal(t, "lazada", offers[1].Merchant)
}

func TestFetchOffers_EmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	f := testFetcher(t, srv.URL)
	offers, err := f.FetchOffers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestFetchOffers_NullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": null}`))
	}))
	defer srv.Close()

	f := testFetcher(t, srv.URL)
	offers, err := f.FetchOffers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}

func TestFetchOffers_ServerErrorIsRetriedThenFails(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := testFetcher(t, srv.URL)
	_, err := f.FetchOffers(context.Background())

	assert.ErrorIs(t, err, sync.ErrUpstreamUnavailable)
	assert.Equal(t, 2, attempts, "5xx responses should be retried up to the attempt budget")
}

func TestFetchOffers_RecoversOnRetry(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data": [{"id": "a", "merchant": "tiki"}]}`))
	}))
	defer srv.Close()

	f := testFetcher(t, srv.URL)
	offers, err := f.FetchOffers(context.Background())

	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 2, attempts)
}

func TestFetchOffers_MalformedBodyIsNotRetried(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.Write([]byte(`{"data": [{`))
	}))
	defer srv.Close()

	f := testFetcher(t, srv.URL)
	_, err := f.FetchOffers(context.Background())

	assert.ErrorIs(t, err, sync.ErrUpstreamFormat)
	assert.NotErrorIs(t, err, sync.ErrUpstreamUnavailable)
	assert.Equal(t, 1, attempts, "a decoded-but-broken body is a deterministic failure")
}

func TestFetchOffers_AuthFailureIsNotRetried(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := testFetcher(t, srv.URL)
	_, err := f.FetchOffers(context.Background())

	assert.ErrorIs(t, err, sync.ErrUpstreamUnavailable)
	assert.Equal(t, 1, attempts, "401 is a credential problem, not a transient fault")
}

func TestOffersURL_NoDomain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://api.accesstrade.vn"
	f := &AccessTradeFetcher{cfg: cfg}

	assert.Equal(t, "https://api.accesstrade.vn/v1/offers_informations", f.offersURL())
}

func TestFetchOffers_LargeFeed(t *testing.T) {
	payload := fixtures.GenerateFeedPayload(200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	offers, err := testFetcher(t, srv.URL).FetchOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 200)

	for _, offer := range offers {
		assert.NoError(t, offer.Validate())
	}
	assert.Equal(t, "offer_0000", offers[0].ID)
	assert.Equal(t, "offer_0199", offers[199].ID)
}
