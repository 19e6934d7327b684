// Package universe provides ticker lists for screening runs.
package universe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const wikipediaSP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

const sp500CacheFilename = "sp500_tickers.json"

// Provider resolves named stock universes. The S&P 500 membership list is
// scraped from Wikipedia and cached locally to avoid repeated network calls.
type Provider struct {
	dataDir    string
	sourceURL  string
	httpClient *http.Client
}

// NewProvider creates a Provider caching under dataDir.
func NewProvider(dataDir string) *Provider {
	return NewProviderWithSourceURL(dataDir, wikipediaSP500URL)
}

// NewProviderWithSourceURL creates a Provider with a custom membership list
// URL (for testing)
func NewProviderWithSourceURL(dataDir, sourceURL string) *Provider {
	return &Provider{
		dataDir:   dataDir,
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SP500Tickers returns the S&P 500 ticker symbols, preferring the local
// cache when useCache is set.
func (p *Provider) SP500Tickers(ctx context.Context, useCache bool) ([]string, error) {
	cachePath := filepath.Join(p.dataDir, sp500CacheFilename)

	if useCache {
		if tickers, err := FromFile(cachePath); err == nil {
			log.Infof("loaded %d S&P 500 tickers from cache", len(tickers))
			return tickers, nil
		}
	}

	log.Info("fetching S&P 500 tickers from Wikipedia")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch constituents list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("constituents list returned status %d", resp.StatusCode)
	}

	tickers, err := ParseConstituents(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := p.cacheTickers(cachePath, tickers); err != nil {
		log.Warnf("failed to cache tickers: %v", err)
	}
	return tickers, nil
}

// ParseConstituents extracts ticker symbols from the Wikipedia constituents
// table. Symbols are normalized to the data provider's format (BRK.B ->
// BRK-B) and returned sorted.
func ParseConstituents(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents page: %w", err)
	}

	var tickers []string
	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		symbol := strings.TrimSpace(cell.Text())
		if symbol == "" {
			return // header row
		}
		tickers = append(tickers, strings.ReplaceAll(symbol, ".", "-"))
	})

	if len(tickers) == 0 {
		return nil, fmt.Errorf("no ticker symbols found in constituents table")
	}

	sort.Strings(tickers)
	return tickers, nil
}

func (p *Provider) cacheTickers(path string, tickers []string) error {
	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(tickers, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	log.Infof("cached %d tickers to %s", len(tickers), path)
	return nil
}

// FromFile loads tickers from a JSON file holding a list of strings.
func FromFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker file: %w", err)
	}
	var tickers []string
	if err := json.Unmarshal(raw, &tickers); err != nil {
		return nil, fmt.Errorf("expected a JSON list of tickers in %s: %w", path, err)
	}
	for i, t := range tickers {
		tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	return tickers, nil
}
