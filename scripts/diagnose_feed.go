// Command diagnose_feed probes the AccessTrade offer feed and prints a
// JSON health report: HTTP status, offer counts, deal type split and
// the share of offers that would fail validation. Run it when the sync
// job starts skipping offers or the feed looks stale:
//
//	ACCESSTRADE_ACCESS_TOKEN=... go run scripts/diagnose_feed.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"offersync/internal/domain/entity"
	"offersync/internal/pkg/dealtype"
)

type FeedDiagnostic struct {
	URL            string `json:"url"`
	Status         string `json:"status"` // "OK", "HTTP_ERROR", "PARSE_ERROR", "EMPTY", "TIMEOUT"
	HTTPCode       int    `json:"http_code"`
	OfferCount     int    `json:"offer_count"`
	InvalidCount   int    `json:"invalid_count"`
	CouponsCount   int    `json:"coupons_count"`
	DealsCount     int    `json:"deals_count"`
	ExpiredCount   int    `json:"expired_count"`
	EarliestEnd    string `json:"earliest_end,omitempty"`
	LatestEnd      string `json:"latest_end,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	ResponseTimeMS int64  `json:"response_time_ms"`
}

func main() {
	token := os.Getenv("ACCESSTRADE_ACCESS_TOKEN")
	if token == "" {
		log.Fatal("ACCESSTRADE_ACCESS_TOKEN must be set")
	}

	baseURL := os.Getenv("ACCESSTRADE_API_URL")
	if baseURL == "" {
		baseURL = "https://api.accesstrade.vn"
	}
	feedURL := baseURL + "/v1/offers_informations"

	diag := diagnoseFeed(feedURL, token, 30*time.Second)

	out, err := json.MarshalIndent(diag, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))

	if diag.Status != "OK" {
		os.Exit(1)
	}
}

func diagnoseFeed(url, token string, timeout time.Duration) FeedDiagnostic {
	diag := FeedDiagnostic{URL: url}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	diag.ResponseTimeMS = time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			diag.Status = "TIMEOUT"
		} else {
			diag.Status = "HTTP_ERROR"
		}
		diag.ErrorMessage = err.Error()
		return diag
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("close body: %v", err)
		}
	}()

	diag.HTTPCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return diag
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 100<<20))
	if err != nil {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	var envelope struct {
		Data []*entity.Offer `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		diag.Status = "PARSE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	if len(envelope.Data) == 0 {
		diag.Status = "EMPTY"
		return diag
	}

	now := time.Now()
	for _, offer := range envelope.Data {
		diag.OfferCount++
		if err := offer.Validate(); err != nil {
			diag.InvalidCount++
			continue
		}
		switch dealtype.Classify(offer, now) {
		case entity.DealTypeCoupons:
			diag.CouponsCount++
		case entity.DealTypeDeals:
			diag.DealsCount++
		}
		if endsAt, err := offer.EndsAt(); err == nil {
			if endsAt.Before(now) {
				diag.ExpiredCount++
			}
			end := endsAt.Format(time.RFC3339)
			if diag.EarliestEnd == "" || end < diag.EarliestEnd {
				diag.EarliestEnd = end
			}
			if end > diag.LatestEnd {
				diag.LatestEnd = end
			}
		}
	}

	diag.Status = "OK"
	return diag
}
