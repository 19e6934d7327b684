package models

// TickerMetrics holds the raw financial metrics fetched for a single ticker.
// All financial fields are optional; a nil pointer means the data provider
// did not report the value. FetchError is set when the fetch itself failed.
type TickerMetrics struct {
	Symbol         string   `json:"symbol"`
	TrailingPE     *float64 `json:"trailing_pe"`
	ForwardPE      *float64 `json:"forward_pe"`
	PEGRatio       *float64 `json:"peg_ratio"`
	ROE            *float64 `json:"roe"`
	DebtToEquity   *float64 `json:"debt_to_equity"`
	TrailingEPS    *float64 `json:"trailing_eps"`
	BookValue      *float64 `json:"book_value"`
	CurrentPrice   *float64 `json:"current_price"`
	EarningsGrowth *float64 `json:"earnings_growth"`
	Sector         *string  `json:"sector"`
	Industry       *string  `json:"industry"`
	MarketCap      *float64 `json:"market_cap"`
	CompanyName    *string  `json:"company_name"`
	FetchError     *string  `json:"fetch_error"`
}

// IsValid reports whether the minimum required metrics were fetched.
// A record without trailing EPS cannot be screened.
func (m *TickerMetrics) IsValid() bool {
	return m.FetchError == nil && m.TrailingEPS != nil
}

// SectorLabel returns the sector, or "Unknown" when the provider reported none.
func (m *TickerMetrics) SectorLabel() string {
	if m.Sector == nil || *m.Sector == "" {
		return "Unknown"
	}
	return *m.Sector
}
