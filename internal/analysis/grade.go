package analysis

import "coachdash/internal/fitfile"

// AltitudeStats summarizes the elevation profile of one ride.
type AltitudeStats struct {
	MaxAltitudeM float64
	MinAltitudeM float64
	AvgAltitudeM float64

	// GainM is the altitude range (max - min), not cumulative ascent.
	GainM float64

	// AvgGradePct is gain over total ride distance; nil without a
	// usable distance column.
	AvgGradePct *float64

	// MaxGradePct is the steepest grade over consecutive sample pairs
	// with a positive distance delta; nil when no pair qualifies.
	MaxGradePct *float64

	// GradePct is index-aligned with the input series. Pairs without a
	// positive distance delta (GPS stall, paused recording) read 0.
	GradePct []float64
}

// AnalyzeAltitude computes altitude and grade statistics.
// Returns nil when the ride carries no altitude data at all.
func AnalyzeAltitude(series fitfile.TimeSeries) *AltitudeStats {
	var (
		sum   float64
		count int
		stats AltitudeStats
	)

	for _, s := range series {
		if s.AltitudeM == nil {
			continue
		}
		alt := *s.AltitudeM
		if count == 0 {
			stats.MaxAltitudeM = alt
			stats.MinAltitudeM = alt
		} else {
			if alt > stats.MaxAltitudeM {
				stats.MaxAltitudeM = alt
			}
			if alt < stats.MinAltitudeM {
				stats.MinAltitudeM = alt
			}
		}
		sum += alt
		count++
	}

	if count == 0 {
		return nil
	}

	stats.AvgAltitudeM = sum / float64(count)
	stats.GainM = stats.MaxAltitudeM - stats.MinAltitudeM

	if dist := series.MaxDistanceM(); dist > 0 {
		avg := stats.GainM / dist * 100
		stats.AvgGradePct = &avg
	}

	stats.GradePct = make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		if prev.AltitudeM == nil || cur.AltitudeM == nil ||
			prev.DistanceM == nil || cur.DistanceM == nil {
			continue
		}
		dd := *cur.DistanceM - *prev.DistanceM
		if dd <= 0 {
			continue
		}
		grade := (*cur.AltitudeM - *prev.AltitudeM) / dd * 100
		stats.GradePct[i] = grade
		if stats.MaxGradePct == nil || grade > *stats.MaxGradePct {
			g := grade
			stats.MaxGradePct = &g
		}
	}

	return &stats
}

// EstimateCalories is the coarse energy proxy used on the dashboard:
// 0.3 kcal per kg of rider per km ridden. It deliberately ignores power
// data so rides with and without a meter stay comparable.
func EstimateCalories(weightKg, distanceKm float64) float64 {
	return 0.3 * weightKg * distanceKm
}

// WattsPerKg relates power to rider weight, 0 when weight is unknown.
func WattsPerKg(watts, weightKg float64) float64 {
	if weightKg <= 0 {
		return 0
	}
	return watts / weightKg
}
