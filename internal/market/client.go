package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/pavelsemak/aitrader/models"
)

const datetimeLayout = "2006-01-02 15:04:05"

const defaultBaseURL = "https://api.twelvedata.com"

// Client fetches OHLCV bars from the Twelve Data time-series API with rate
// limiting and exponential-backoff retries. It implements
// models.MarketDataProvider.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	interval   string
	logger     zerolog.Logger
}

// timeSeriesResponse mirrors the Twelve Data payload.
type timeSeriesResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string  `json:"datetime"`
		Open     float64 `json:"open,string"`
		High     float64 `json:"high,string"`
		Low      float64 `json:"low,string"`
		Close    float64 `json:"close,string"`
		Volume   float64 `json:"volume,string,omitempty"`
	} `json:"values"`
	Status string `json:"status"`
}

// NewClient creates an API client. interval is a Twelve Data interval such
// as "5min".
func NewClient(apiKey, interval string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		interval:   interval,
		logger:     log.With().Str("component", "market_client").Logger(),
	}
}

// FetchHistoricalData returns up to count bars in ascending timestamp
// order. An empty payload is the "no data" signal: (nil, nil).
func (c *Client) FetchHistoricalData(ctx context.Context, symbol string, count int) ([]models.Bar, error) {
	return c.fetchSeries(ctx, symbol, count)
}

// FetchRealTimeData returns the latest bar with change fields filled from
// its predecessor, or (nil, nil) when the provider has no data.
func (c *Client) FetchRealTimeData(ctx context.Context, symbol string) (*models.Bar, error) {
	bars, err := c.fetchSeries(ctx, symbol, 2)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}
	latest := bars[len(bars)-1]
	return &latest, nil
}

func (c *Client) fetchSeries(ctx context.Context, symbol string, count int) ([]models.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf(
		"%s/time_series?symbol=%s&interval=%s&outputsize=%d&apikey=%s",
		c.baseURL, symbol, c.interval, count, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("non-200 status code: %d", resp.StatusCode)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, fmt.Errorf("after retries: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Error().Str("response", string(body)).Msg("Twelve Data API error")
		return nil, fmt.Errorf("Twelve Data API error: %s", string(body))
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(data.Values) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("no bars in response")
		return nil, nil
	}

	// Oldest first so windowed indicators see the tail.
	sort.Slice(data.Values, func(i, j int) bool {
		return data.Values[i].Datetime < data.Values[j].Datetime
	})

	bars := make([]models.Bar, 0, len(data.Values))
	for i, v := range data.Values {
		ts, err := time.Parse(datetimeLayout, v.Datetime)
		if err != nil {
			c.logger.Warn().Str("datetime", v.Datetime).Msg("skipping bar with unparseable datetime")
			continue
		}

		bar := models.Bar{
			Symbol:    symbol,
			Open:      v.Open,
			High:      v.High,
			Low:       v.Low,
			Close:     v.Close,
			Volume:    v.Volume,
			Timestamp: ts.UnixMilli(),
		}
		if i > 0 {
			prev := data.Values[i-1].Close
			bar.Change = v.Close - prev
			if prev != 0 {
				bar.ChangePercent = bar.Change / prev * 100
			}
		}
		bars = append(bars, bar)
	}

	c.logger.Debug().Str("symbol", symbol).Int("count", len(bars)).Msg("fetched bars")
	return bars, nil
}
