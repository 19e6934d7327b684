package screener

import (
	"github.com/cwhuang/valuescan/internal/models"
)

// GroupBySector partitions records by sector label, assigning records with
// no sector to "Unknown". It also returns the sector labels in first-seen
// order so callers can iterate deterministically; records keep their input
// order within each group. Callers must filter out invalid records first.
func GroupBySector(records []*models.TickerMetrics) (map[string][]*models.TickerMetrics, []string) {
	groups := make(map[string][]*models.TickerMetrics)
	var order []string
	for _, m := range records {
		sector := m.SectorLabel()
		if _, seen := groups[sector]; !seen {
			order = append(order, sector)
		}
		groups[sector] = append(groups[sector], m)
	}
	return groups, order
}
