package models

import "time"

// Screening modes tag which pipeline produced a result. They discriminate
// the result variants during serialization instead of structural probing.
const (
	ModeDualTrack  = "dual_track"
	ModeSafetyOnly = "safety_only"
	ModeError      = "error"
)

// SectorPercentiles holds a ticker's normalized ranks within its sector
// (0.0 = best, 1.0 = worst). A nil rank means the metric was missing on the
// ticker or fewer than two sector peers reported it.
type SectorPercentiles struct {
	PEPercentile  *float64 `json:"pe_percentile"`
	PEGPercentile *float64 `json:"peg_percentile"`
	ROEPercentile *float64 `json:"roe_percentile"`
	DEPercentile  *float64 `json:"de_percentile"`
	Sector        string   `json:"sector"`
	SectorCount   int      `json:"sector_count"`
}

// MetricsSummary echoes the subset of fetched metrics relevant for display.
type MetricsSummary struct {
	TrailingPE   *float64 `json:"trailing_pe"`
	PEGRatio     *float64 `json:"peg_ratio"`
	ROE          *float64 `json:"roe"`
	DebtToEquity *float64 `json:"debt_to_equity"`
	TrailingEPS  *float64 `json:"trailing_eps"`
	BookValue    *float64 `json:"book_value"`
	Sector       *string  `json:"sector"`
	Industry     *string  `json:"industry"`
	CompanyName  *string  `json:"company_name"`
}

// NewMetricsSummary extracts the display subset from a fetched record.
func NewMetricsSummary(m *TickerMetrics) *MetricsSummary {
	if m == nil {
		return nil
	}
	return &MetricsSummary{
		TrailingPE:   m.TrailingPE,
		PEGRatio:     m.PEGRatio,
		ROE:          m.ROE,
		DebtToEquity: m.DebtToEquity,
		TrailingEPS:  m.TrailingEPS,
		BookValue:    m.BookValue,
		Sector:       m.Sector,
		Industry:     m.Industry,
		CompanyName:  m.CompanyName,
	}
}

// SectorResult is the dual-track screening verdict for one ticker.
// Immutable once constructed; the batch screener only reads it for sorting.
type SectorResult struct {
	Symbol        string `json:"symbol"`
	Passed        bool   `json:"passed"`
	ScreeningMode string `json:"screening_mode"`

	GrahamNumber      *float64 `json:"graham_number"`
	CurrentPrice      *float64 `json:"current_price"`
	MarginOfSafetyPct *float64 `json:"margin_of_safety_pct"`
	FailReasons       []string `json:"fail_reasons"`

	// Track 1
	SectorPercentiles  *SectorPercentiles `json:"sector_percentiles"`
	PassedSectorFilter bool               `json:"passed_sector_filter"`

	// Track 2
	PassedSafetyFilter bool     `json:"passed_safety_filter"`
	SafetyFailReasons  []string `json:"safety_fail_reasons"`

	Metrics *MetricsSummary `json:"metrics"`
}

// AbsoluteResult is the legacy single-track screening verdict for one ticker.
type AbsoluteResult struct {
	Symbol            string          `json:"symbol"`
	Passed            bool            `json:"passed"`
	GrahamNumber      *float64        `json:"graham_number"`
	CurrentPrice      *float64        `json:"current_price"`
	MarginOfSafetyPct *float64        `json:"margin_of_safety_pct"`
	FailReasons       []string        `json:"fail_reasons"`
	Metrics           *MetricsSummary `json:"metrics"`
}

// SectorSummary aggregates the distribution of key ratios within one sector
// for a screening run. Informational only.
type SectorSummary struct {
	Sector   string   `json:"sector"`
	Count    int      `json:"count"`
	MedianPE *float64 `json:"median_pe"`
	MedianDE *float64 `json:"median_de"`
	MeanROE  *float64 `json:"mean_roe"`
}

// RunPayload is the persisted shape of one screening run. Results holds
// either []*SectorResult or []*AbsoluteResult depending on the run mode.
type RunPayload struct {
	Timestamp       time.Time       `json:"timestamp"`
	Tag             string          `json:"tag"`
	TotalScreened   int             `json:"total_screened"`
	TotalPassed     int             `json:"total_passed"`
	SectorSummaries []SectorSummary `json:"sector_summaries,omitempty"`
	Results         any             `json:"results"`
}
