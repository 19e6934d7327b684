package models

// ErrorResponse is the standard error envelope for API responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ScreenRequest triggers a screening run. Either Tickers or Universe must be
// set; Mode selects the pipeline and defaults to dual_track.
type ScreenRequest struct {
	Tickers  []string `json:"tickers"`
	Universe string   `json:"universe"` // "sp500"
	Mode     string   `json:"mode"`     // "dual_track" | "absolute"
	Tag      string   `json:"tag"`      // persistence tag, defaulted per mode
}
