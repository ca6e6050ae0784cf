package analysis

import (
	"math"

	"coachdash/internal/fitfile"
)

// ZoneTime is the time a ride spent in one power zone.
// Samples arrive at 1 Hz, so the sample count doubles as seconds.
type ZoneTime struct {
	Label   string
	Seconds int
	Minutes float64 // rounded to one decimal
	Percent float64 // of classified samples
}

var zoneLabels = [5]string{
	"Z1 Recovery",
	"Z2 Endurance",
	"Z3 Tempo",
	"Z4 Threshold",
	"Z5+ VO2Max",
}

// Lower FTP-ratio bound of each zone. Bounds are inclusive on the lower
// side, so exactly 0.75 x FTP is already tempo. Zero and negative power
// land in Z1.
var zoneLowerRatio = [5]float64{math.Inf(-1), 0.55, 0.75, 0.90, 1.05}

// TimeInZones buckets every power sample into one of the five zones
// relative to ftpWatts. Returns nil when the ride has no power data or
// ftpWatts is not positive.
func TimeInZones(series fitfile.TimeSeries, ftpWatts int) []ZoneTime {
	if ftpWatts <= 0 {
		return nil
	}

	var counts [5]int
	total := 0
	for _, s := range series {
		if s.PowerW == nil {
			continue
		}
		ratio := *s.PowerW / float64(ftpWatts)
		zone := 0
		for i := len(zoneLowerRatio) - 1; i > 0; i-- {
			if ratio >= zoneLowerRatio[i] {
				zone = i
				break
			}
		}
		counts[zone]++
		total++
	}

	if total == 0 {
		return nil
	}

	out := make([]ZoneTime, len(zoneLabels))
	for i, c := range counts {
		out[i] = ZoneTime{
			Label:   zoneLabels[i],
			Seconds: c,
			Minutes: math.Round(float64(c)/60*10) / 10,
			Percent: float64(c) / float64(total) * 100,
		}
	}
	return out
}
