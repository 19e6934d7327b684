package screener

import (
	"fmt"

	"github.com/cwhuang/valuescan/internal/models"
)

// applySafetyFilter runs the Track 2 safety floor against one ticker.
//
// Only obviously extreme values fail; a missing metric is never a failure
// reason here. Every violated bound is reported, not just the first.
func applySafetyFilter(m *models.TickerMetrics, t models.SectorRelativeThresholds) (bool, []string) {
	var failReasons []string

	if m.TrailingPE != nil && *m.TrailingPE >= t.SafetyPEMax {
		failReasons = append(failReasons,
			fmt.Sprintf("P/E %.1f >= safety ceiling %.0f", *m.TrailingPE, t.SafetyPEMax))
	}

	if m.PEGRatio != nil && *m.PEGRatio >= t.SafetyPEGMax {
		failReasons = append(failReasons,
			fmt.Sprintf("PEG %.2f >= safety ceiling %.1f", *m.PEGRatio, t.SafetyPEGMax))
	}

	if m.ROE != nil && *m.ROE < t.SafetyROEMin {
		failReasons = append(failReasons,
			fmt.Sprintf("ROE %.2f%% < safety floor %.0f%%", *m.ROE*100, t.SafetyROEMin*100))
	}

	if m.DebtToEquity != nil && *m.DebtToEquity > t.SafetyDEMax {
		failReasons = append(failReasons,
			fmt.Sprintf("D/E %.2f > safety ceiling %.1f", *m.DebtToEquity, t.SafetyDEMax))
	}

	return len(failReasons) == 0, failReasons
}
