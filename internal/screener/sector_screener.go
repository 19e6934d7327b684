package screener

import (
	"fmt"
	"sort"

	"github.com/cwhuang/valuescan/internal/models"
)

// marginSentinel sorts passed results with no margin of safety below every
// real margin. It is never serialized.
const marginSentinel = -999.0

// calculateSectorPercentiles ranks one ticker's metrics against its sector
// group. A percentile is computed only when the ticker has the metric and at
// least two group members report it.
func calculateSectorPercentiles(m *models.TickerMetrics, group []*models.TickerMetrics) *models.SectorPercentiles {
	var peValues, pegValues, roeValues, deValues []float64
	for _, peer := range group {
		if peer.TrailingPE != nil {
			peValues = append(peValues, *peer.TrailingPE)
		}
		if peer.PEGRatio != nil {
			pegValues = append(pegValues, *peer.PEGRatio)
		}
		if peer.ROE != nil {
			roeValues = append(roeValues, *peer.ROE)
		}
		if peer.DebtToEquity != nil {
			deValues = append(deValues, *peer.DebtToEquity)
		}
	}

	p := &models.SectorPercentiles{
		Sector:      m.SectorLabel(),
		SectorCount: len(group),
	}
	if m.TrailingPE != nil && len(peValues) > 1 {
		rank := MetricRank(*m.TrailingPE, peValues, true)
		p.PEPercentile = &rank
	}
	if m.PEGRatio != nil && len(pegValues) > 1 {
		rank := MetricRank(*m.PEGRatio, pegValues, true)
		p.PEGPercentile = &rank
	}
	if m.ROE != nil && len(roeValues) > 1 {
		rank := MetricRank(*m.ROE, roeValues, false)
		p.ROEPercentile = &rank
	}
	if m.DebtToEquity != nil && len(deValues) > 1 {
		rank := MetricRank(*m.DebtToEquity, deValues, true)
		p.DEPercentile = &rank
	}
	return p
}

// ScreenBatchDualTrack screens a batch with the dual-track pipeline:
// sector-relative percentile ranking plus the absolute safety floor.
//
//  1. Partition out records that failed fetching
//  2. Group the rest by sector
//  3. Per ticker, run Track 1 (percentiles) and Track 2 (safety floor)
//  4. Final pass requires both tracks
//  5. Sectors below MinSectorSize skip Track 1 (safety_only mode)
//
// Ordering: passed results by margin of safety descending, then failed and
// error results in insertion order. Deterministic for identical inputs.
func ScreenBatchDualTrack(metricsList []*models.TickerMetrics, thresholds models.SectorRelativeThresholds) []*models.SectorResult {
	var validMetrics, invalidMetrics []*models.TickerMetrics
	for _, m := range metricsList {
		if m.IsValid() {
			validMetrics = append(validMetrics, m)
		} else {
			invalidMetrics = append(invalidMetrics, m)
		}
	}

	groups, sectorOrder := GroupBySector(validMetrics)
	var results []*models.SectorResult

	for _, sector := range sectorOrder {
		group := groups[sector]
		useSectorFilter := len(group) >= thresholds.MinSectorSize

		for _, m := range group {
			// Track 2: safety floor, independent of group size
			safetyPassed, safetyReasons := applySafetyFilter(m, thresholds)

			// Track 1: sector percentiles
			percentiles := calculateSectorPercentiles(m, group)
			var sectorPassed bool
			var screeningMode string

			if useSectorFilter {
				screeningMode = models.ModeDualTrack
				// Every defined percentile must clear the cutoff, and at
				// least one must be defined: total data absence disqualifies.
				defined := 0
				allWithin := true
				for _, pct := range []*float64{
					percentiles.PEPercentile,
					percentiles.PEGPercentile,
					percentiles.ROEPercentile,
					percentiles.DEPercentile,
				} {
					if pct == nil {
						continue
					}
					defined++
					if *pct > thresholds.SectorPercentileThreshold {
						allWithin = false
					}
				}
				sectorPassed = defined > 0 && allWithin
			} else {
				// Sector too small for percentile ranking to mean anything
				screeningMode = models.ModeSafetyOnly
				sectorPassed = true
			}

			passed := safetyPassed && sectorPassed

			var failReasons []string
			if !sectorPassed && useSectorFilter {
				failReasons = append(failReasons, "failed sector percentile filter")
			}
			failReasons = append(failReasons, safetyReasons...)

			graham, mosPct := grahamAndMargin(m, thresholds.GrahamMultiplier)

			results = append(results, &models.SectorResult{
				Symbol:             m.Symbol,
				Passed:             passed,
				ScreeningMode:      screeningMode,
				SectorPercentiles:  percentiles,
				PassedSectorFilter: sectorPassed,
				PassedSafetyFilter: safetyPassed,
				SafetyFailReasons:  safetyReasons,
				GrahamNumber:       graham,
				CurrentPrice:       m.CurrentPrice,
				MarginOfSafetyPct:  mosPct,
				Metrics:            models.NewMetricsSummary(m),
				FailReasons:        failReasons,
			})
		}
	}

	for _, m := range invalidMetrics {
		fetchErr := "missing trailing EPS"
		if m.FetchError != nil {
			fetchErr = *m.FetchError
		}
		results = append(results, &models.SectorResult{
			Symbol:        m.Symbol,
			Passed:        false,
			ScreeningMode: models.ModeError,
			Metrics:       models.NewMetricsSummary(m),
			FailReasons:   []string{fmt.Sprintf("data fetch failed: %s", fetchErr)},
		})
	}

	return sortSectorResults(results)
}

// grahamAndMargin computes the informational Graham number and, when a
// current price exists, the margin of safety percentage.
func grahamAndMargin(m *models.TickerMetrics, multiplier float64) (*float64, *float64) {
	if m.TrailingEPS == nil || m.BookValue == nil {
		return nil, nil
	}
	graham := models.GrahamNumber(*m.TrailingEPS, *m.BookValue, multiplier)
	if graham == nil || m.CurrentPrice == nil {
		return graham, nil
	}
	mos := (*graham - *m.CurrentPrice) / *graham * 100
	return graham, &mos
}

// sortSectorResults orders passed results by margin of safety descending,
// followed by failed and error results in their insertion order.
func sortSectorResults(results []*models.SectorResult) []*models.SectorResult {
	var passed, failed []*models.SectorResult
	for _, r := range results {
		if r.Passed {
			passed = append(passed, r)
		} else {
			failed = append(failed, r)
		}
	}
	sort.SliceStable(passed, func(i, j int) bool {
		return marginOrSentinel(passed[i].MarginOfSafetyPct) > marginOrSentinel(passed[j].MarginOfSafetyPct)
	})
	return append(passed, failed...)
}

func marginOrSentinel(margin *float64) float64 {
	if margin == nil {
		return marginSentinel
	}
	return *margin
}
