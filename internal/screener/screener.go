package screener

import (
	"fmt"
	"sort"

	"github.com/cwhuang/valuescan/internal/models"
)

// ScreenTicker applies the legacy absolute filters to a single ticker.
//
// A ticker passes only if every filter passes. Unlike the safety floor of
// the dual-track pipeline, missing data causes failure here (conservative
// approach).
func ScreenTicker(m *models.TickerMetrics, thresholds models.ScreeningThresholds) *models.AbsoluteResult {
	if !m.IsValid() {
		fetchErr := "missing trailing EPS"
		if m.FetchError != nil {
			fetchErr = *m.FetchError
		}
		return &models.AbsoluteResult{
			Symbol:      m.Symbol,
			Passed:      false,
			FailReasons: []string{fmt.Sprintf("invalid data: %s", fetchErr)},
			Metrics:     models.NewMetricsSummary(m),
		}
	}

	var failReasons []string

	if m.TrailingPE != nil {
		if *m.TrailingPE >= thresholds.PERatioMax {
			failReasons = append(failReasons,
				fmt.Sprintf("P/E %.1f >= %.1f", *m.TrailingPE, thresholds.PERatioMax))
		}
	} else {
		failReasons = append(failReasons, "P/E ratio unavailable")
	}

	if m.PEGRatio != nil {
		if *m.PEGRatio >= thresholds.PEGRatioMax {
			failReasons = append(failReasons,
				fmt.Sprintf("PEG %.2f >= %.2f", *m.PEGRatio, thresholds.PEGRatioMax))
		}
	} else {
		failReasons = append(failReasons, "PEG ratio unavailable")
	}

	if m.ROE != nil {
		if *m.ROE < thresholds.ROEMin {
			failReasons = append(failReasons,
				fmt.Sprintf("ROE %.2f%% < %.0f%%", *m.ROE*100, thresholds.ROEMin*100))
		}
	} else {
		failReasons = append(failReasons, "ROE unavailable")
	}

	if m.DebtToEquity != nil {
		if *m.DebtToEquity > thresholds.DebtToEquityMax {
			failReasons = append(failReasons,
				fmt.Sprintf("D/E %.2f > %.2f", *m.DebtToEquity, thresholds.DebtToEquityMax))
		}
	} else {
		failReasons = append(failReasons, "Debt/Equity unavailable")
	}

	graham, mosPct := grahamAndMargin(m, thresholds.GrahamMultiplier)

	return &models.AbsoluteResult{
		Symbol:            m.Symbol,
		Passed:            len(failReasons) == 0,
		GrahamNumber:      graham,
		CurrentPrice:      m.CurrentPrice,
		MarginOfSafetyPct: mosPct,
		Metrics:           models.NewMetricsSummary(m),
		FailReasons:       failReasons,
	}
}

// ScreenBatch screens a batch with the legacy absolute pipeline. Results are
// ordered passed first (margin of safety descending), then failed in
// insertion order.
func ScreenBatch(metricsList []*models.TickerMetrics, thresholds models.ScreeningThresholds) []*models.AbsoluteResult {
	var passed, failed []*models.AbsoluteResult
	for _, m := range metricsList {
		r := ScreenTicker(m, thresholds)
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
