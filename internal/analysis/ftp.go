package analysis

import "coachdash/internal/fitfile"

const (
	// DefaultFTPWatts is assumed when a rider has no power data at all.
	DefaultFTPWatts = 250

	// ftpWindow is 20 minutes of 1 Hz samples.
	ftpWindow = 1200

	ftpFactor = 0.95
)

// EstimateFTP estimates functional threshold power from a single ride:
// 95% of the best 20-minute rolling average power, truncated to whole
// watts. Rides shorter than the window fall back to the plain average,
// rides without power to DefaultFTPWatts.
func EstimateFTP(series fitfile.TimeSeries) int {
	return estimateFromPower(series.PowerColumn())
}

// EstimateFTPAcross applies the same estimate to several rides at once
// by concatenating their power columns in the given order. Callers pass
// the most recent rides in chronological order.
func EstimateFTPAcross(series []fitfile.TimeSeries) int {
	var power []float64
	for _, ts := range series {
		power = append(power, ts.PowerColumn()...)
	}
	return estimateFromPower(power)
}

func estimateFromPower(power []float64) int {
	if len(power) == 0 {
		return DefaultFTPWatts
	}
	if len(power) < ftpWindow {
		return int(mean(power))
	}
	return int(bestRollingMean(power, ftpWindow) * ftpFactor)
}

// bestRollingMean finds the highest windowed average with a sliding sum,
// so a multi-hour ride stays O(n). len(values) must be >= window.
func bestRollingMean(values []float64, window int) float64 {
	var sum float64
	for _, v := range values[:window] {
		sum += v
	}
	best := sum
	for i := window; i < len(values); i++ {
		sum += values[i] - values[i-window]
		if sum > best {
			best = sum
		}
	}
	return best / float64(window)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
