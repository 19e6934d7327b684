package screener

import (
	"testing"

	"github.com/cwhuang/valuescan/internal/models"
)

// TestSummarizeSectors verifies the per-sector aggregates and first-seen
// sector ordering.
func TestSummarizeSectors(t *testing.T) {
	batch := []*models.TickerMetrics{
		techMetric("T1", 10),
		techMetric("T2", 20),
		techMetric("T3", 30),
	}
	util := techMetric("U1", 12)
	util.Sector = str("Utilities")
	util.ROE = f64(0.10)
	batch = append(batch, util)

	summaries := SummarizeSectors(batch)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 sectors, got %d", len(summaries))
	}

	tech := summaries[0]
	if tech.Sector != "Technology" || tech.Count != 3 {
		t.Fatalf("unexpected first summary: %+v", tech)
	}
	if tech.MedianPE == nil || *tech.MedianPE != 20 {
		t.Errorf("expected median P/E 20, got %v", tech.MedianPE)
	}
	if tech.MeanROE != nil {
		t.Errorf("expected nil mean ROE with no ROE data, got %v", tech.MeanROE)
	}

	utilities := summaries[1]
	if utilities.Sector != "Utilities" {
		t.Fatalf("expected Utilities second, got %q", utilities.Sector)
	}
	if utilities.MeanROE == nil || *utilities.MeanROE != 0.10 {
		t.Errorf("expected mean ROE 0.10, got %v", utilities.MeanROE)
	}
}

// TestSummarizeSectorsEmpty verifies an empty batch yields no summaries.
func TestSummarizeSectorsEmpty(t *testing.T) {
	if summaries := SummarizeSectors(nil); len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}
