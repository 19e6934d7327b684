package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cwhuang/valuescan/internal/cache"
	"github.com/cwhuang/valuescan/internal/models"
	"github.com/cwhuang/valuescan/internal/repository"
	"github.com/cwhuang/valuescan/internal/screener"
	"github.com/cwhuang/valuescan/internal/universe"
	"github.com/cwhuang/valuescan/internal/yahoo"
)

// Request validation errors surfaced to the API layer as 400s.
var (
	ErrUnknownUniverse = errors.New("unknown universe")
	ErrUnknownMode     = errors.New("unknown screening mode")
	ErrEmptyUniverse   = errors.New("no tickers to screen")
)

// Default persistence tags per screening mode.
const (
	TagDualTrack = "layer1_dual"
	TagAbsolute  = "layer1"
)

// ScanService orchestrates a screening run: resolve the universe, fetch
// metrics through the cache, screen, summarize, and persist the run.
type ScanService struct {
	client       *yahoo.Client
	metricsCache *cache.MetricsCache
	universes    *universe.Provider
	resultsRepo  *repository.ResultsRepository
}

// NewScanService creates a new ScanService
func NewScanService(
	client *yahoo.Client,
	metricsCache *cache.MetricsCache,
	universes *universe.Provider,
	resultsRepo *repository.ResultsRepository,
) *ScanService {
	return &ScanService{
		client:       client,
		metricsCache: metricsCache,
		universes:    universes,
		resultsRepo:  resultsRepo,
	}
}

// RunScreen executes one screening run and returns the persisted payload.
func (s *ScanService) RunScreen(ctx context.Context, req *models.ScreenRequest) (*models.RunPayload, error) {
	defer TrackTime("RunScreen", time.Now())

	symbols, err := s.resolveSymbols(ctx, req)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = models.ModeDualTrack
	}
	tag := req.Tag
	if tag == "" {
		if mode == models.ModeDualTrack {
			tag = TagDualTrack
		} else {
			tag = TagAbsolute
		}
	}

	log.Infof("screening %d symbols (mode=%s, tag=%s)", len(symbols), mode, tag)

	s.metricsCache.Load()
	metricsList, err := s.client.FetchBatch(ctx, symbols, s.metricsCache)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metrics: %w", err)
	}
	if err := s.metricsCache.Save(); err != nil {
		log.Warnf("failed to save metrics cache: %v", err)
	}

	payload := &models.RunPayload{
		Timestamp:     time.Now().UTC(),
		Tag:           tag,
		TotalScreened: len(metricsList),
	}

	switch mode {
	case models.ModeDualTrack:
		results := screener.ScreenBatchDualTrack(metricsList, models.DefaultSectorThresholds())
		for _, r := range results {
			if r.Passed {
				payload.TotalPassed++
			}
		}
		payload.SectorSummaries = screener.SummarizeSectors(validRecords(metricsList))
		payload.Results = results
	case "absolute":
		results := screener.ScreenBatch(metricsList, models.DefaultThresholds())
		for _, r := range results {
			if r.Passed {
				payload.TotalPassed++
			}
		}
		payload.Results = results
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	log.Infof("screening complete: %d/%d passed", payload.TotalPassed, payload.TotalScreened)

	if s.resultsRepo != nil {
		id, err := s.resultsRepo.SaveRun(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to persist screening run: %w", err)
		}
		log.Infof("screening run saved: id=%d tag=%s", id, tag)
	}

	return payload, nil
}

// LatestRun returns the most recent persisted run for a tag, or nil.
func (s *ScanService) LatestRun(ctx context.Context, tag string) (*models.RunPayload, error) {
	return s.resultsRepo.GetLatestRun(ctx, tag)
}

// ListRuns returns summaries of recent runs.
func (s *ScanService) ListRuns(ctx context.Context, limit int) ([]repository.RunInfo, error) {
	return s.resultsRepo.ListRuns(ctx, limit)
}

func (s *ScanService) resolveSymbols(ctx context.Context, req *models.ScreenRequest) ([]string, error) {
	var symbols []string
	for _, t := range req.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			symbols = append(symbols, t)
		}
	}

	if len(symbols) == 0 && req.Universe != "" {
		switch req.Universe {
		case "sp500":
			tickers, err := s.universes.SP500Tickers(ctx, true)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve universe %q: %w", req.Universe, err)
			}
			symbols = tickers
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownUniverse, req.Universe)
		}
	}

	if len(symbols) == 0 {
		return nil, ErrEmptyUniverse
	}
	return symbols, nil
}

func validRecords(metricsList []*models.TickerMetrics) []*models.TickerMetrics {
	var valid []*models.TickerMetrics
	for _, m := range metricsList {
		if m.IsValid() {
			valid = append(valid, m)
		}
	}
	return valid
}
