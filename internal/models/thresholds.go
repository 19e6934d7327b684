package models

import "math"

// ScreeningThresholds configures the legacy single-track absolute screener.
// A ticker passes only if every ratio clears its fixed bound.
type ScreeningThresholds struct {
	PERatioMax       float64
	PEGRatioMax      float64
	ROEMin           float64
	DebtToEquityMax  float64
	GrahamMultiplier float64
}

// DefaultThresholds returns the standard absolute screening thresholds.
func DefaultThresholds() ScreeningThresholds {
	return ScreeningThresholds{
		PERatioMax:       15.0,
		PEGRatioMax:      1.0,
		ROEMin:           0.15,
		DebtToEquityMax:  0.5,
		GrahamMultiplier: 22.5,
	}
}

// SectorRelativeThresholds configures the dual-track screener.
//
// Track 1 (primary): per-metric percentile rank within the same sector;
// only tickers ranking within the top SectorPercentileThreshold pass.
// Track 2 (safety floor): loose absolute bounds that reject obviously
// unhealthy extremes regardless of sector standing.
// Both tracks must pass for a final pass.
type SectorRelativeThresholds struct {
	// Track 1: percentile cutoff (0.30 = top 30%)
	SectorPercentileThreshold float64
	// Sectors with fewer tickers than this skip percentile ranking entirely
	MinSectorSize int

	// Track 2: loose safety bounds
	SafetyPEMax  float64
	SafetyPEGMax float64
	SafetyROEMin float64
	SafetyDEMax  float64

	GrahamMultiplier float64
}

// DefaultSectorThresholds returns the standard dual-track thresholds.
func DefaultSectorThresholds() SectorRelativeThresholds {
	return SectorRelativeThresholds{
		SectorPercentileThreshold: 0.30,
		MinSectorSize:             5,
		SafetyPEMax:               50.0,
		SafetyPEGMax:              3.0,
		SafetyROEMin:              0.05,
		SafetyDEMax:               2.0,
		GrahamMultiplier:          22.5,
	}
}

// GrahamNumber calculates the Graham number for safety margin assessment:
// sqrt(multiplier * EPS * book value per share).
// Returns nil when either input is zero or negative.
func GrahamNumber(eps, bookValuePerShare, multiplier float64) *float64 {
	if eps <= 0 || bookValuePerShare <= 0 {
		return nil
	}
	g := math.Sqrt(multiplier * eps * bookValuePerShare)
	return &g
}
