// Package yahoo fetches the most recent daily close for one instrument from
// the Yahoo Finance chart API. Every failure mode — transport error, HTTP
// error status, API error envelope, empty or all-null close series, a close
// outside the sane price window — degrades to the configured fallback price.
// The caller never sees an error and never learns which failure occurred.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jskimlam/iranwar-simulation/internal/config"
	"github.com/jskimlam/iranwar-simulation/internal/logger"
)

// Source labels recorded on the snapshot.
const (
	SourceLive     = "yahoo-finance"
	SourceFallback = "fallback"
)

// Quote is the outcome of one reference-price lookup.
type Quote struct {
	Price    float64
	AsOf     time.Time
	Source   string
	Fallback bool
}

// Client queries the Yahoo Finance v8 chart endpoint for a single symbol.
type Client struct {
	http          *resty.Client
	symbol        string
	lookbackRange string
	interval      string
	fallbackPrice float64
	minSanePrice  float64
	maxSanePrice  float64
}

// NewClient creates a client for the configured instrument.
func NewClient(cfg config.MarketDataConfig) *Client {
	http := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; iranwar-simulation)")

	return &Client{
		http:          http,
		symbol:        cfg.Symbol,
		lookbackRange: cfg.LookbackRange,
		interval:      cfg.Interval,
		fallbackPrice: cfg.FallbackPrice,
		minSanePrice:  cfg.MinSanePrice,
		maxSanePrice:  cfg.MaxSanePrice,
	}
}

// chartResponse mirrors the Yahoo v8 chart envelope. Close values use
// pointers because the API reports missing bars as null.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// LatestClose returns the most recent daily close for the configured symbol.
// It never fails: any fetch-side problem yields the fallback price with a
// single warning log, matching the degrade-to-stale-value policy.
func (c *Client) LatestClose(ctx context.Context) Quote {
	price, asOf, err := c.fetchLatestClose(ctx)
	if err != nil {
		logger.Warn("Reference price fetch failed, falling back to $%.2f: %v", c.fallbackPrice, err)
		return Quote{
			Price:    c.fallbackPrice,
			AsOf:     time.Now().UTC(),
			Source:   SourceFallback,
			Fallback: true,
		}
	}

	logger.Info("Fetched %s close: %.2f USD/bbl", c.symbol, price)
	return Quote{
		Price:  price,
		AsOf:   asOf,
		Source: SourceLive,
	}
}

func (c *Client) fetchLatestClose(ctx context.Context) (float64, time.Time, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval":       c.interval,
			"range":          c.lookbackRange,
			"includePrePost": "false",
		}).
		Get(fmt.Sprintf("/v8/finance/chart/%s", c.symbol))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("request failed for %s: %w", c.symbol, err)
	}
	if resp.IsError() {
		return 0, time.Time{}, fmt.Errorf("unexpected status %d for %s", resp.StatusCode(), c.symbol)
	}

	var chart chartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if chart.Chart.Error != nil {
		return 0, time.Time{}, fmt.Errorf("yahoo api error: %s - %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return 0, time.Time{}, fmt.Errorf("no result in response for %s", c.symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return 0, time.Time{}, fmt.Errorf("no quote data in response for %s", c.symbol)
	}

	closes := result.Indicators.Quote[0].Close

	// Most recent non-null close wins.
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil {
			continue
		}
		price := *closes[i]

		if price < c.minSanePrice || price > c.maxSanePrice {
			return 0, time.Time{}, fmt.Errorf("implausible %s close: %.2f", c.symbol, price)
		}

		asOf := time.Now().UTC()
		if i < len(result.Timestamp) {
			asOf = time.Unix(result.Timestamp[i], 0).UTC()
		}
		return price, asOf, nil
	}

	return 0, time.Time{}, fmt.Errorf("no valid close in response for %s", c.symbol)
}
