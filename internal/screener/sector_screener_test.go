package screener

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cwhuang/valuescan/internal/models"
)

// techMetric builds a valid Technology-sector record with the given P/E and
// enough per-share data for a Graham number. Other ratios are left missing
// so they clear the safety floor and produce no percentile.
func techMetric(symbol string, pe float64) *models.TickerMetrics {
	return &models.TickerMetrics{
		Symbol:       symbol,
		TrailingPE:   f64(pe),
		TrailingEPS:  f64(2.0),
		BookValue:    f64(10.0),
		CurrentPrice: f64(10.0),
		Sector:       str("Technology"),
	}
}

// TestDualTrackTopPercentileScenario screens six Technology tickers with
// P/E [8,10,12,14,16,30]. Ranks are 0, 0.2, ..., 1.0; the 0.30 cutoff
// admits exactly the two lowest P/E tickers.
func TestDualTrackTopPercentileScenario(t *testing.T) {
	batch := []*models.TickerMetrics{
		techMetric("T1", 8),
		techMetric("T2", 10),
		techMetric("T3", 12),
		techMetric("T4", 14),
		techMetric("T5", 16),
		techMetric("T6", 30),
	}

	results := ScreenBatchDualTrack(batch, models.DefaultSectorThresholds())
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}

	bySymbol := make(map[string]*models.SectorResult)
	passedCount := 0
	for _, r := range results {
		bySymbol[r.Symbol] = r
		if r.Passed {
			passedCount++
		}
		if r.ScreeningMode != models.ModeDualTrack {
			t.Errorf("%s: expected dual_track mode, got %s", r.Symbol, r.ScreeningMode)
		}
	}

	if passedCount != 2 {
		t.Errorf("expected 2 passed, got %d", passedCount)
	}
	if !bySymbol["T1"].Passed || !bySymbol["T2"].Passed {
		t.Error("expected the two lowest P/E tickers to pass")
	}

	expectedRanks := map[string]float64{
		"T1": 0.0, "T2": 0.2, "T3": 0.4, "T4": 0.6, "T5": 0.8, "T6": 1.0,
	}
	for symbol, want := range expectedRanks {
		r := bySymbol[symbol]
		if r.SectorPercentiles == nil || r.SectorPercentiles.PEPercentile == nil {
			t.Fatalf("%s: missing PE percentile", symbol)
		}
		if got := *r.SectorPercentiles.PEPercentile; !approxEqual(got, want) {
			t.Errorf("%s: expected PE percentile %.1f, got %.4f", symbol, want, got)
		}
		if r.SectorPercentiles.SectorCount != 6 {
			t.Errorf("%s: expected sector count 6, got %d", symbol, r.SectorPercentiles.SectorCount)
		}
	}

	worst := bySymbol["T6"]
	if worst.PassedSectorFilter {
		t.Error("expected rank-1.0 ticker to fail the sector filter")
	}
	if !worst.PassedSafetyFilter {
		t.Error("P/E 30 is under the safety ceiling of 50 and should pass Track 2")
	}
	found := false
	for _, reason := range worst.FailReasons {
		if reason == "failed sector percentile filter" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected sector filter fail reason, got %v", worst.FailReasons)
	}
}

// TestDualTrackSmallSectorSafetyOnly verifies a 3-member sector with
// min_sector_size 5 falls back to safety-only mode for every member.
func TestDualTrackSmallSectorSafetyOnly(t *testing.T) {
	batch := []*models.TickerMetrics{}
	for i, symbol := range []string{"RE1", "RE2", "RE3"} {
		m := techMetric(symbol, float64(10+i*20)) // RE3 has P/E 50 -> safety violation
		m.Sector = str("RealEstate")
		batch = append(batch, m)
	}

	results := ScreenBatchDualTrack(batch, models.DefaultSectorThresholds())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, r := range results {
		if r.ScreeningMode != models.ModeSafetyOnly {
			t.Errorf("%s: expected safety_only mode, got %s", r.Symbol, r.ScreeningMode)
		}
		if !r.PassedSectorFilter {
			t.Errorf("%s: sector filter must be vacuously passed in a small sector", r.Symbol)
		}
		switch r.Symbol {
		case "RE3":
			if r.Passed {
				t.Error("RE3: P/E 50 hits the safety ceiling and must fail")
			}
		default:
			if !r.Passed {
				t.Errorf("%s: expected pass, got failure: %v", r.Symbol, r.FailReasons)
			}
		}
	}
}

// TestDualTrackFetchErrorRecord verifies a fetch failure yields an error-mode
// result with the original error preserved, sorted after screened results.
func TestDualTrackFetchErrorRecord(t *testing.T) {
	batch := []*models.TickerMetrics{
		{Symbol: "BAD", FetchError: str("connection reset")},
		techMetric("OK1", 8),
		techMetric("OK2", 9),
	}

	results := ScreenBatchDualTrack(batch, models.DefaultSectorThresholds())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	last := results[len(results)-1]
	if last.Symbol != "BAD" {
		t.Fatalf("expected error record last, got %s", last.Symbol)
	}
	if last.Passed {
		t.Error("error record must not pass")
	}
	if last.ScreeningMode != models.ModeError {
		t.Errorf("expected error mode, got %s", last.ScreeningMode)
	}
	if len(last.FailReasons) != 1 || !strings.Contains(last.FailReasons[0], "connection reset") {
		t.Errorf("expected the fetch error preserved verbatim, got %v", last.FailReasons)
	}
}

// TestDualTrackMissingEPSIsInvalid verifies a record without trailing EPS
// never enters grouping.
func TestDualTrackMissingEPSIsInvalid(t *testing.T) {
	noEPS := techMetric("NOEPS", 10)
	noEPS.TrailingEPS = nil

	results := ScreenBatchDualTrack([]*models.TickerMetrics{noEPS}, models.DefaultSectorThresholds())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ScreeningMode != models.ModeError {
		t.Errorf("expected error mode, got %s", results[0].ScreeningMode)
	}
	if results[0].SectorPercentiles != nil {
		t.Error("invalid record must not be ranked")
	}
}

// TestDualTrackSafetyOverridesPercentile verifies failing one safety bound
// fails the ticker regardless of percentile standing.
func TestDualTrackSafetyOverridesPercentile(t *testing.T) {
	batch := []*models.TickerMetrics{
		techMetric("T1", 8),
		techMetric("T2", 10),
		techMetric("T3", 12),
		techMetric("T4", 14),
		techMetric("T5", 16),
	}
	batch[0].DebtToEquity = f64(3.0) // best P/E but extreme leverage

	results := ScreenBatchDualTrack(batch, models.DefaultSectorThresholds())
	var target *models.SectorResult
	for _, r := range results {
		if r.Symbol == "T1" {
			target = r
		}
	}

	if target == nil {
		t.Fatal("missing result for T1")
	}
	if !target.PassedSectorFilter {
		t.Error("T1 has the best P/E and should pass Track 1")
	}
	if target.PassedSafetyFilter || target.Passed {
		t.Error("a safety violation must fail the ticker regardless of rank")
	}
}

// TestDualTrackZeroPercentilesFails verifies a dual_track ticker with no
// comparable metric at all fails Track 1 (total data absence disqualifies).
func TestDualTrackZeroPercentilesFails(t *testing.T) {
	batch := []*models.TickerMetrics{
		techMetric("T1", 8),
		techMetric("T2", 10),
		techMetric("T3", 12),
		techMetric("T4", 14),
	}
	bare := techMetric("BARE", 0)
	bare.TrailingPE = nil
	batch = append(batch, bare)

	results := ScreenBatchDualTrack(batch, models.DefaultSectorThresholds())
	var target *models.SectorResult
	for _, r := range results {
		if r.Symbol == "BARE" {
			target = r
		}
	}

	if target == nil {
		t.Fatal("missing result for BARE")
	}
	if target.ScreeningMode != models.ModeDualTrack {
		t.Fatalf("expected dual_track mode, got %s", target.ScreeningMode)
	}
	if target.PassedSectorFilter || target.Passed {
		t.Error("a ticker with zero defined percentiles must fail Track 1")
	}
}

// TestDualTrackUnknownSector verifies records without a sector group under
// the "Unknown" label.
func TestDualTrackUnknownSector(t *testing.T) {
	m := techMetric("NOSEC", 10)
	m.Sector = nil

	results := ScreenBatchDualTrack([]*models.TickerMetrics{m}, models.DefaultSectorThresholds())
	if results[0].SectorPercentiles.Sector != "Unknown" {
		t.Errorf("expected Unknown sector, got %q", results[0].SectorPercentiles.Sector)
	}
}

// TestDualTrackSortOrder verifies passed results order by margin of safety
// descending, passed results without a margin sort last among passed, and
// failed results keep insertion order at the end.
func TestDualTrackSortOrder(t *testing.T) {
	unsafe := techMetric("UNSAFE", 60) // fails the safety ceiling
	noMargin := techMetric("NOMARGIN", 10)
	noMargin.BookValue = nil // no Graham number, no margin
	lowMargin := techMetric("LOW", 10)
	lowMargin.CurrentPrice = f64(15) // margin ~29%
	highMargin := techMetric("HIGH", 10)
	highMargin.CurrentPrice = f64(5) // margin ~76%

	// All in one 4-member sector: safety-only, so margins decide the order
	batch := []*models.TickerMetrics{unsafe, noMargin, lowMargin, highMargin}

	results := ScreenBatchDualTrack(batch, models.DefaultSectorThresholds())
	var order []string
	for _, r := range results {
		order = append(order, r.Symbol)
	}

	expected := []string{"HIGH", "LOW", "NOMARGIN", "UNSAFE"}
	for i, want := range expected {
		if order[i] != want {
			t.Fatalf("expected order %v, got %v", expected, order)
		}
	}
}

// TestDualTrackDeterministic verifies two runs over the same input produce
// byte-identical serialized output.
func TestDualTrackDeterministic(t *testing.T) {
	batch := []*models.TickerMetrics{
		techMetric("A", 8),
		techMetric("B", 12),
		{Symbol: "ERR", FetchError: str("timeout")},
	}
	other := techMetric("C", 9)
	other.Sector = str("Utilities")
	batch = append(batch, other)

	first, err := json.Marshal(ScreenBatchDualTrack(batch, models.DefaultSectorThresholds()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(ScreenBatchDualTrack(batch, models.DefaultSectorThresholds()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if string(first) != string(second) {
		t.Error("expected identical output for identical inputs")
	}
}
