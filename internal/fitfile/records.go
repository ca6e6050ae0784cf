package fitfile

import (
	"bytes"
	"math"
	"time"

	"github.com/tormoder/fit"
)

// FIT invalid-value sentinels for unscaled record fields.
const (
	invalidUint8  = 0xFF
	invalidUint16 = 0xFFFF
)

// RawRecord is one record message lifted out of a FIT file.
// Fields the head unit did not write are nil.
type RawRecord struct {
	Timestamp         time.Time
	PowerW            *float64
	HeartRateBPM      *float64
	CadenceRPM        *float64
	SpeedMS           *float64
	AltitudeM         *float64
	EnhancedAltitudeM *float64
	DistanceM         *float64
	LatSemicircles    *int32
	LonSemicircles    *int32
}

// DecodeRecords extracts the record messages from raw FIT bytes.
// A file that cannot be decoded, is not an activity, or holds no usable
// record messages yields nil; corrupt uploads are a fact of life and are
// reported by the caller, not here.
func DecodeRecords(data []byte) []RawRecord {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	activity, err := decoded.Activity()
	if err != nil {
		return nil
	}

	records := make([]RawRecord, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec == nil || fit.IsBaseTime(rec.Timestamp) {
			continue
		}

		r := RawRecord{Timestamp: rec.Timestamp}

		if rec.Power != invalidUint16 {
			p := float64(rec.Power)
			r.PowerW = &p
		}
		if rec.HeartRate != invalidUint8 {
			hr := float64(rec.HeartRate)
			r.HeartRateBPM = &hr
		}
		if rec.Cadence != invalidUint8 {
			cad := float64(rec.Cadence)
			r.CadenceRPM = &cad
		}

		// Newer devices write the enhanced speed field instead of the
		// 16-bit one; take whichever is set.
		if v := rec.GetEnhancedSpeedScaled(); !math.IsNaN(v) {
			r.SpeedMS = &v
		} else if v := rec.GetSpeedScaled(); !math.IsNaN(v) {
			r.SpeedMS = &v
		}

		if v := rec.GetAltitudeScaled(); !math.IsNaN(v) {
			r.AltitudeM = &v
		}
		if v := rec.GetEnhancedAltitudeScaled(); !math.IsNaN(v) {
			r.EnhancedAltitudeM = &v
		}
		if v := rec.GetDistanceScaled(); !math.IsNaN(v) {
			r.DistanceM = &v
		}

		if !rec.PositionLat.Invalid() && !rec.PositionLong.Invalid() {
			lat := rec.PositionLat.Semicircles()
			lon := rec.PositionLong.Semicircles()
			r.LatSemicircles = &lat
			r.LonSemicircles = &lon
		}

		records = append(records, r)
	}

	if len(records) == 0 {
		return nil
	}
	return records
}
