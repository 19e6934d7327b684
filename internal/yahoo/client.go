// Package yahoo fetches per-ticker fundamentals from the Yahoo Finance
// quote-summary API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cwhuang/valuescan/internal/models"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"

const quoteSummaryModules = "summaryDetail,financialData,defaultKeyStatistics,assetProfile,price"

// Retry policy for transient fetch failures: two retries with exponential
// backoff starting at one second.
const (
	fetchRetryCount = 2
	fetchRetryDelay = 1 * time.Second
)

// Client is an HTTP client for the Yahoo Finance quote-summary API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Yahoo Finance client
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client with a custom base URL (for testing)
func NewClientWithBaseURL(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetTickerMetrics fetches financial metrics for a single ticker, retrying
// transient failures with exponential backoff. Fetch failures are reported
// as data: the returned record carries FetchError instead of the call
// returning an error, so a bad symbol never aborts a batch.
func (c *Client) GetTickerMetrics(ctx context.Context, symbol string) *models.TickerMetrics {
	var lastErr error
	for attempt := 0; attempt <= fetchRetryCount; attempt++ {
		if attempt > 0 {
			delay := fetchRetryDelay * (1 << (attempt - 1))
			log.Warnf("attempt %d/%d failed for %s: %v, retrying in %s",
				attempt, fetchRetryCount+1, symbol, lastErr, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				errStr := ctx.Err().Error()
				return &models.TickerMetrics{Symbol: symbol, FetchError: &errStr}
			}
		}

		metrics, err := c.fetchOnce(ctx, symbol)
		if err == nil {
			return metrics
		}
		lastErr = err
	}

	log.Errorf("all attempts failed for %s: %v", symbol, lastErr)
	errStr := lastErr.Error()
	return &models.TickerMetrics{Symbol: symbol, FetchError: &errStr}
}

func (c *Client) fetchOnce(ctx context.Context, symbol string) (*models.TickerMetrics, error) {
	params := url.Values{}
	params.Set("modules", quoteSummaryModules)
	reqURL := c.baseURL + "/" + url.PathEscape(symbol) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// The endpoint rejects clients without a browser-like user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; valuescan/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var qs quoteSummaryResponse
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// An empty result set is a definitive answer, not a transient failure
	if len(qs.QuoteSummary.Result) == 0 ||
		qs.QuoteSummary.Result[0].Price == nil ||
		qs.QuoteSummary.Result[0].Price.QuoteType == "" {
		errStr := fmt.Sprintf("no data returned for %s", symbol)
		return &models.TickerMetrics{Symbol: symbol, FetchError: &errStr}, nil
	}

	return parseMetrics(symbol, qs.QuoteSummary.Result[0]), nil
}

// parseMetrics converts the module payload into TickerMetrics. It normalizes
// debtToEquity from a percentage to a ratio, and derives PEG from trailing
// P/E and earnings growth when the vendor omits it.
func parseMetrics(symbol string, r quoteSummaryResult) *models.TickerMetrics {
	m := &models.TickerMetrics{Symbol: symbol}

	if r.SummaryDetail != nil {
		m.TrailingPE = r.SummaryDetail.TrailingPE.Raw
		m.ForwardPE = r.SummaryDetail.ForwardPE.Raw
		m.MarketCap = r.SummaryDetail.MarketCap.Raw
	}
	if r.FinancialData != nil {
		m.CurrentPrice = r.FinancialData.CurrentPrice.Raw
		m.ROE = r.FinancialData.ReturnOnEquity.Raw
		m.EarningsGrowth = r.FinancialData.EarningsGrowth.Raw
		if de := r.FinancialData.DebtToEquity.Raw; de != nil {
			ratio := *de / 100.0
			m.DebtToEquity = &ratio
		}
	}
	if r.DefaultKeyStatistics != nil {
		m.TrailingEPS = r.DefaultKeyStatistics.TrailingEps.Raw
		m.BookValue = r.DefaultKeyStatistics.BookValue.Raw
		m.PEGRatio = r.DefaultKeyStatistics.PegRatio.Raw
	}
	if r.AssetProfile != nil {
		if r.AssetProfile.Sector != "" {
			sector := r.AssetProfile.Sector
			m.Sector = &sector
		}
		if r.AssetProfile.Industry != "" {
			industry := r.AssetProfile.Industry
			m.Industry = &industry
		}
	}
	if r.Price != nil && r.Price.ShortName != "" {
		name := r.Price.ShortName
		m.CompanyName = &name
	}

	// PEG fallback: the vendor feed drops pegRatio intermittently
	if m.PEGRatio == nil && m.TrailingPE != nil && m.EarningsGrowth != nil {
		growthPct := *m.EarningsGrowth * 100
		if growthPct > 0 {
			peg := *m.TrailingPE / growthPct
			m.PEGRatio = &peg
		}
	}

	return m
}
