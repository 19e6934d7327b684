package screener

import (
	"github.com/montanaflynn/stats"

	"github.com/cwhuang/valuescan/internal/models"
)

// SummarizeSectors computes the per-sector distribution of key ratios for a
// batch of screenable records. Informational only; the verdicts never depend
// on it. Sectors appear in first-seen order.
func SummarizeSectors(records []*models.TickerMetrics) []models.SectorSummary {
	groups, sectorOrder := GroupBySector(records)

	summaries := make([]models.SectorSummary, 0, len(sectorOrder))
	for _, sector := range sectorOrder {
		group := groups[sector]

		var peValues, deValues, roeValues []float64
		for _, m := range group {
			if m.TrailingPE != nil {
				peValues = append(peValues, *m.TrailingPE)
			}
			if m.DebtToEquity != nil {
				deValues = append(deValues, *m.DebtToEquity)
			}
			if m.ROE != nil {
				roeValues = append(roeValues, *m.ROE)
			}
		}

		summaries = append(summaries, models.SectorSummary{
			Sector:   sector,
			Count:    len(group),
			MedianPE: medianOf(peValues),
			MedianDE: medianOf(deValues),
			MeanROE:  meanOf(roeValues),
		})
	}
	return summaries
}

func medianOf(values []float64) *float64 {
	median, err := stats.Median(values)
	if err != nil {
		return nil
	}
	return &median
}

func meanOf(values []float64) *float64 {
	mean, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	return &mean
}
