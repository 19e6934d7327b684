package yahoo

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cwhuang/valuescan/internal/cache"
	"github.com/cwhuang/valuescan/internal/models"
)

// Batch fetch pacing: a handful of in-flight requests, throttled well under
// the vendor's unauthenticated rate limit.
const (
	maxConcurrentFetches = 4
	fetchesPerSecond     = 5
)

// FetchBatch fetches metrics for a batch of symbols, consulting the metrics
// cache first. Output preserves input order. Fetch failures surface as
// records with FetchError set; the only error returned is context
// cancellation.
func (c *Client) FetchBatch(ctx context.Context, symbols []string, metricsCache *cache.MetricsCache) ([]*models.TickerMetrics, error) {
	results := make([]*models.TickerMetrics, len(symbols))
	limiter := rate.NewLimiter(rate.Limit(fetchesPerSecond), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	fetched := 0
	for i, symbol := range symbols {
		if metricsCache != nil {
			if cached := metricsCache.Get(symbol); cached != nil {
				results[i] = cached
				continue
			}
		}
		fetched++

		i, symbol := i, symbol
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			m := c.GetTickerMetrics(gctx, symbol)
			results[i] = m
			if metricsCache != nil {
				metricsCache.Put(m)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Infof("fetched %d/%d symbols (%d from cache)", fetched, len(symbols), len(symbols)-fetched)
	return results, nil
}
