package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jskimlam/iranwar-simulation/internal/config"
)

func testConfig(baseURL string) config.MarketDataConfig {
	return config.MarketDataConfig{
		APIBaseURL:    baseURL,
		Symbol:        "CL=F",
		LookbackRange: "2d",
		Interval:      "1d",
		Timeout:       5 * time.Second,
		FallbackPrice: 78.45,
		MinSanePrice:  20.0,
		MaxSanePrice:  200.0,
	}
}

func chartBody(closes string) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"currency": "USD", "symbol": "CL=F", "regularMarketPrice": 81.5, "regularMarketTime": 1700000000},
				"timestamp": [1699900000, 1700000000],
				"indicators": {"quote": [{"close": %s}]}
			}],
			"error": null
		}
	}`, closes)
}

func TestLatestClose_MostRecentDailyClose(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/CL=F" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("interval") != "1d" {
			t.Errorf("interval = %q, want 1d", query.Get("interval"))
		}
		if query.Get("range") != "2d" {
			t.Errorf("range = %q, want 2d", query.Get("range"))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody("[80.1, 81.5]"))
	}))
	defer mockServer.Close()

	client := NewClient(testConfig(mockServer.URL))
	quote := client.LatestClose(context.Background())

	if quote.Fallback {
		t.Fatal("unexpected fallback")
	}
	if quote.Price != 81.5 {
		t.Errorf("price = %v, want 81.5", quote.Price)
	}
	if quote.Source != SourceLive {
		t.Errorf("source = %q, want %q", quote.Source, SourceLive)
	}
	if want := time.Unix(1700000000, 0).UTC(); !quote.AsOf.Equal(want) {
		t.Errorf("asOf = %v, want %v", quote.AsOf, want)
	}
}

func TestLatestClose_SkipsNullTail(t *testing.T) {
	// The current day's bar is null before settlement; the previous close wins.
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("[79.2, null]"))
	}))
	defer mockServer.Close()

	client := NewClient(testConfig(mockServer.URL))
	quote := client.LatestClose(context.Background())

	if quote.Fallback {
		t.Fatal("unexpected fallback")
	}
	if quote.Price != 79.2 {
		t.Errorf("price = %v, want 79.2", quote.Price)
	}
}

func TestLatestClose_FallbackPaths(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "api error envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
			},
		},
		{
			name: "empty result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
			},
		},
		{
			name: "all-null close series",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, chartBody("[null, null]"))
			},
		},
		{
			name: "implausible price",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, chartBody("[500.0]"))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"chart":`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockServer := httptest.NewServer(tt.handler)
			defer mockServer.Close()

			client := NewClient(testConfig(mockServer.URL))
			quote := client.LatestClose(context.Background())

			if !quote.Fallback {
				t.Fatal("expected fallback")
			}
			if quote.Price != 78.45 {
				t.Errorf("price = %v, want fallback 78.45", quote.Price)
			}
			if quote.Source != SourceFallback {
				t.Errorf("source = %q, want %q", quote.Source, SourceFallback)
			}
		})
	}
}

func TestLatestClose_FallbackOnUnreachableProvider(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	mockServer.Close() // connection refused from here on

	client := NewClient(testConfig(mockServer.URL))
	quote := client.LatestClose(context.Background())

	if !quote.Fallback || quote.Price != 78.45 {
		t.Errorf("quote = %+v, want fallback at 78.45", quote)
	}
}
