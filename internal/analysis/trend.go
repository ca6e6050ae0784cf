package analysis

import "sort"

// TrendTotals aggregates a set of summary rows.
type TrendTotals struct {
	Activities     int
	DistanceKM     float64
	ElevationGainM float64
	DurationHours  float64
	Calories       float64
}

// TrendDataset is the cross-activity progress view. Rows are sorted by
// ride date ascending regardless of insertion order; the power deltas
// compare the chronologically first and last ride.
type TrendDataset struct {
	Rows   []SummaryRow
	Totals TrendTotals

	PowerDeltaW     *float64
	WattsPerKgDelta *float64
}

// BuildTrend sorts the rows by date and reduces them to totals and the
// first-to-last power progression. Calories use the EstimateCalories
// proxy with the rider's weight.
func BuildTrend(rows []SummaryRow, weightKg float64) TrendDataset {
	sorted := make([]SummaryRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		// Same start time should not happen, but keep the order stable.
		return sorted[i].Name < sorted[j].Name
	})

	ds := TrendDataset{Rows: sorted}
	for _, r := range sorted {
		ds.Totals.Activities++
		ds.Totals.DistanceKM += r.DistanceKM
		ds.Totals.ElevationGainM += r.ElevationGainM
		ds.Totals.DurationHours += r.DurationMin / 60
		ds.Totals.Calories += EstimateCalories(weightKg, r.DistanceKM)
	}

	if len(sorted) > 0 {
		delta := sorted[len(sorted)-1].AvgPowerW - sorted[0].AvgPowerW
		ds.PowerDeltaW = &delta
		if weightKg > 0 {
			wkg := delta / weightKg
			ds.WattsPerKgDelta = &wkg
		}
	}

	return ds
}
