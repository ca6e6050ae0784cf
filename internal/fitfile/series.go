package fitfile

import "time"

// semicircleDegrees converts FIT semicircle position units to degrees.
const semicircleDegrees = 180.0 / 2147483648.0

// Sample is one normalized point of an activity time series.
// Optional columns are pointers; nil means the device never reported
// the metric, which downstream code must treat as "unavailable", not zero.
type Sample struct {
	Timestamp      time.Time
	ElapsedMin     float64
	DistanceM      *float64
	SpeedKMH       *float64
	AltitudeM      *float64
	PowerW         *float64
	HeartRateBPM   *float64
	CadenceRPM     *float64
	LatSemicircles *int32
	LonSemicircles *int32
}

// Position returns the sample position in degrees.
// ok is false when the device wrote no GPS fix for this sample.
func (s Sample) Position() (lat, lon float64, ok bool) {
	if s.LatSemicircles == nil || s.LonSemicircles == nil {
		return 0, 0, false
	}
	return float64(*s.LatSemicircles) * semicircleDegrees,
		float64(*s.LonSemicircles) * semicircleDegrees,
		true
}

// TimeSeries is a normalized activity, ordered by timestamp.
type TimeSeries []Sample

// Empty reports whether the series holds no samples.
func (ts TimeSeries) Empty() bool { return len(ts) == 0 }

// HasPower reports whether any sample carries a power reading.
func (ts TimeSeries) HasPower() bool {
	for _, s := range ts {
		if s.PowerW != nil {
			return true
		}
	}
	return false
}

// HasAltitude reports whether any sample carries an altitude reading.
func (ts TimeSeries) HasAltitude() bool {
	for _, s := range ts {
		if s.AltitudeM != nil {
			return true
		}
	}
	return false
}

// HasDistance reports whether any sample carries a distance reading.
func (ts TimeSeries) HasDistance() bool {
	for _, s := range ts {
		if s.DistanceM != nil {
			return true
		}
	}
	return false
}

// HasHeartRate reports whether any sample carries a heart rate reading.
func (ts TimeSeries) HasHeartRate() bool {
	for _, s := range ts {
		if s.HeartRateBPM != nil {
			return true
		}
	}
	return false
}

// HasCadence reports whether any sample carries a cadence reading.
func (ts TimeSeries) HasCadence() bool {
	for _, s := range ts {
		if s.CadenceRPM != nil {
			return true
		}
	}
	return false
}

// PowerColumn returns the power readings in sample order,
// skipping samples without power.
func (ts TimeSeries) PowerColumn() []float64 {
	var out []float64
	for _, s := range ts {
		if s.PowerW != nil {
			out = append(out, *s.PowerW)
		}
	}
	return out
}

// DurationMin is the elapsed time of the last sample.
func (ts TimeSeries) DurationMin() float64 {
	if len(ts) == 0 {
		return 0
	}
	return ts[len(ts)-1].ElapsedMin
}

// MaxDistanceM is the largest cumulative distance reading, 0 when the
// distance column is absent.
func (ts TimeSeries) MaxDistanceM() float64 {
	var max float64
	for _, s := range ts {
		if s.DistanceM != nil && *s.DistanceM > max {
			max = *s.DistanceM
		}
	}
	return max
}
