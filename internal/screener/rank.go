// Package screener implements the quantitative value filters: the legacy
// absolute screener and the dual-track sector-relative screener.
//
// Track 1 (primary): per-metric percentile rank within the same sector;
// only tickers in the top slice of their sector pass.
// Track 2 (safety floor): loose absolute thresholds that reject obviously
// unhealthy extremes. A ticker must clear both tracks to pass.
package screener

// MetricRank computes a normalized rank from 0.0 (best) to 1.0 (worst).
//
// Formula: strictlyBetterCount / (N - 1), where allValues is the full peer
// group including the value being ranked. Tied values share the rank implied
// by the count of strictly better values. A group of one ranks 0.0.
func MetricRank(value float64, allValues []float64, lowerIsBetter bool) float64 {
	n := len(allValues)
	if n <= 1 {
		return 0.0
	}
	better := 0
	for _, v := range allValues {
		if lowerIsBetter {
			if v < value {
				better++
			}
		} else {
			if v > value {
				better++
			}
		}
	}
	return float64(better) / float64(n-1)
}
