package yahoo

// Yahoo wraps most numeric fields in {"raw": 1.23, "fmt": "1.23"} objects.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	SummaryDetail        *summaryDetail        `json:"summaryDetail"`
	FinancialData        *financialData        `json:"financialData"`
	DefaultKeyStatistics *defaultKeyStatistics `json:"defaultKeyStatistics"`
	AssetProfile         *assetProfile         `json:"assetProfile"`
	Price                *priceInfo            `json:"price"`
}

type summaryDetail struct {
	TrailingPE rawValue `json:"trailingPE"`
	ForwardPE  rawValue `json:"forwardPE"`
	MarketCap  rawValue `json:"marketCap"`
}

type financialData struct {
	CurrentPrice   rawValue `json:"currentPrice"`
	ReturnOnEquity rawValue `json:"returnOnEquity"`
	DebtToEquity   rawValue `json:"debtToEquity"`
	EarningsGrowth rawValue `json:"earningsGrowth"`
}

type defaultKeyStatistics struct {
	TrailingEps rawValue `json:"trailingEps"`
	BookValue   rawValue `json:"bookValue"`
	PegRatio    rawValue `json:"pegRatio"`
}

type assetProfile struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

type priceInfo struct {
	ShortName string `json:"shortName"`
	QuoteType string `json:"quoteType"`
}
