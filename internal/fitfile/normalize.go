package fitfile

import "sort"

// Normalize converts decoded records into the canonical time series:
// samples sorted by timestamp, elapsed minutes measured from the first
// sample, speed in km/h, and a single altitude column that prefers the
// enhanced field over the 16-bit one. Altitude is never synthesized;
// a ride without barometer data simply has no altitude column.
// Empty input yields an empty series.
func Normalize(records []RawRecord) TimeSeries {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]RawRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	start := sorted[0].Timestamp
	series := make(TimeSeries, 0, len(sorted))
	for _, rec := range sorted {
		s := Sample{
			Timestamp:      rec.Timestamp,
			ElapsedMin:     rec.Timestamp.Sub(start).Minutes(),
			DistanceM:      rec.DistanceM,
			PowerW:         rec.PowerW,
			HeartRateBPM:   rec.HeartRateBPM,
			CadenceRPM:     rec.CadenceRPM,
			LatSemicircles: rec.LatSemicircles,
			LonSemicircles: rec.LonSemicircles,
		}

		if rec.SpeedMS != nil {
			kmh := *rec.SpeedMS * 3.6
			s.SpeedKMH = &kmh
		}

		switch {
		case rec.EnhancedAltitudeM != nil:
			s.AltitudeM = rec.EnhancedAltitudeM
		case rec.AltitudeM != nil:
			s.AltitudeM = rec.AltitudeM
		}

		series = append(series, s)
	}

	return series
}

// Load parses FIT bytes into a normalized time series.
// It is a pure function: the same bytes always produce the same series,
// and undecodable bytes produce an empty one.
func Load(data []byte) TimeSeries {
	return Normalize(DecodeRecords(data))
}
