package analysis

import (
	"time"

	"coachdash/internal/fitfile"
)

// SummaryRow is the per-ride reduction used by the trend view and the
// activity index. Metrics the ride did not record are 0.
type SummaryRow struct {
	Name            string
	Date            time.Time
	DistanceKM      float64
	DurationMin     float64
	AvgSpeedKMH     float64
	AvgPowerW       float64
	AvgCadenceRPM   float64
	AvgHeartRateBPM float64
	ElevationGainM  float64
}

// Summarize reduces one ride to a summary row.
// ok is false for an empty series.
func Summarize(name string, series fitfile.TimeSeries) (SummaryRow, bool) {
	if series.Empty() {
		return SummaryRow{}, false
	}

	row := SummaryRow{
		Name:        name,
		Date:        series[0].Timestamp,
		DistanceKM:  series.MaxDistanceM() / 1000,
		DurationMin: series.DurationMin(),
	}

	if st, ok := SpeedStats(series); ok {
		row.AvgSpeedKMH = st.Avg
	}
	if st, ok := PowerStats(series); ok {
		row.AvgPowerW = st.Avg
	}
	if st, ok := HeartRateStats(series); ok {
		row.AvgHeartRateBPM = st.Avg
	}
	if st, ok := CadenceStats(series); ok {
		row.AvgCadenceRPM = st.Avg
	}
	if alt := AnalyzeAltitude(series); alt != nil {
		row.ElevationGainM = alt.GainM
	}

	return row, true
}

// ColumnStats is an average/maximum pair over one metric column.
type ColumnStats struct {
	Avg   float64
	Max   float64
	Count int
}

func columnStats(series fitfile.TimeSeries, pick func(fitfile.Sample) *float64) (ColumnStats, bool) {
	var st ColumnStats
	var sum float64
	for _, s := range series {
		v := pick(s)
		if v == nil {
			continue
		}
		if st.Count == 0 || *v > st.Max {
			st.Max = *v
		}
		sum += *v
		st.Count++
	}
	if st.Count == 0 {
		return ColumnStats{}, false
	}
	st.Avg = sum / float64(st.Count)
	return st, true
}

// PowerStats aggregates the power column; ok is false without power data.
func PowerStats(series fitfile.TimeSeries) (ColumnStats, bool) {
	return columnStats(series, func(s fitfile.Sample) *float64 { return s.PowerW })
}

// SpeedStats aggregates the speed column.
func SpeedStats(series fitfile.TimeSeries) (ColumnStats, bool) {
	return columnStats(series, func(s fitfile.Sample) *float64 { return s.SpeedKMH })
}

// HeartRateStats aggregates the heart rate column.
func HeartRateStats(series fitfile.TimeSeries) (ColumnStats, bool) {
	return columnStats(series, func(s fitfile.Sample) *float64 { return s.HeartRateBPM })
}

// CadenceStats aggregates cadence over pedaling samples only; zero
// cadence is coasting, which would drag the average into uselessness.
func CadenceStats(series fitfile.TimeSeries) (ColumnStats, bool) {
	return columnStats(series, func(s fitfile.Sample) *float64 {
		if s.CadenceRPM == nil || *s.CadenceRPM <= 0 {
			return nil
		}
		return s.CadenceRPM
	})
}

// ThresholdTolerance is the half-width of the FTP matching band.
const ThresholdTolerance = 0.05

// ThresholdStats is the rider's response while holding threshold power.
type ThresholdStats struct {
	AvgHeartRateBPM float64
	AvgCadenceRPM   float64
	SampleCount     int
}

// ThresholdEffort averages heart rate and cadence over samples whose
// power sits within ±5% of targetWatts and that carry positive heart
// rate and cadence. Returns nil when no sample qualifies; callers omit
// the ride rather than showing zeros.
func ThresholdEffort(series fitfile.TimeSeries, targetWatts float64) *ThresholdStats {
	if targetWatts <= 0 {
		return nil
	}

	lo := targetWatts * (1 - ThresholdTolerance)
	hi := targetWatts * (1 + ThresholdTolerance)

	var st ThresholdStats
	var hrSum, cadSum float64
	for _, s := range series {
		if s.PowerW == nil || *s.PowerW < lo || *s.PowerW > hi {
			continue
		}
		if s.HeartRateBPM == nil || *s.HeartRateBPM <= 0 {
			continue
		}
		if s.CadenceRPM == nil || *s.CadenceRPM <= 0 {
			continue
		}
		hrSum += *s.HeartRateBPM
		cadSum += *s.CadenceRPM
		st.SampleCount++
	}

	if st.SampleCount == 0 {
		return nil
	}
	st.AvgHeartRateBPM = hrSum / float64(st.SampleCount)
	st.AvgCadenceRPM = cadSum / float64(st.SampleCount)
	return &st
}
