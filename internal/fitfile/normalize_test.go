package fitfile

import (
	"math"
	"testing"
	"time"
)

func floatPtr(f float64) *float64 {
	return &f
}

func int32Ptr(i int32) *int32 {
	return &i
}

func makeRecord(offset int, speedMS float64) RawRecord {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return RawRecord{
		Timestamp: base.Add(time.Duration(offset) * time.Second),
		SpeedMS:   floatPtr(speedMS),
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); !got.Empty() {
		t.Errorf("Normalize(nil) = %d samples, want empty", len(got))
	}
	if got := Normalize([]RawRecord{}); !got.Empty() {
		t.Errorf("Normalize(empty) = %d samples, want empty", len(got))
	}
}

func TestNormalizeSpeedConversion(t *testing.T) {
	series := Normalize([]RawRecord{makeRecord(0, 10)})
	if len(series) != 1 {
		t.Fatalf("got %d samples, want 1", len(series))
	}
	if series[0].SpeedKMH == nil {
		t.Fatal("SpeedKMH is nil")
	}
	if got := *series[0].SpeedKMH; math.Abs(got-36.0) > 1e-9 {
		t.Errorf("SpeedKMH = %v, want 36.0", got)
	}
}

func TestNormalizeMissingSpeedStaysNil(t *testing.T) {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	series := Normalize([]RawRecord{{Timestamp: base}})
	if series[0].SpeedKMH != nil {
		t.Errorf("SpeedKMH = %v, want nil for a record without speed", *series[0].SpeedKMH)
	}
}

func TestNormalizeElapsedMinutes(t *testing.T) {
	series := Normalize([]RawRecord{
		makeRecord(0, 8),
		makeRecord(30, 8),
		makeRecord(90, 8),
	})

	want := []float64{0, 0.5, 1.5}
	for i, w := range want {
		if got := series[i].ElapsedMin; math.Abs(got-w) > 1e-9 {
			t.Errorf("sample %d: ElapsedMin = %v, want %v", i, got, w)
		}
	}
}

func TestNormalizeSortsByTimestamp(t *testing.T) {
	// Records arrive out of order; elapsed time must still be measured
	// from the earliest timestamp.
	series := Normalize([]RawRecord{
		makeRecord(60, 9),
		makeRecord(0, 7),
		makeRecord(30, 8),
	})

	if got := series[0].ElapsedMin; got != 0 {
		t.Errorf("first sample ElapsedMin = %v, want 0", got)
	}
	for i := 1; i < len(series); i++ {
		if series[i].Timestamp.Before(series[i-1].Timestamp) {
			t.Errorf("samples not sorted at index %d", i)
		}
	}
	if got := *series[0].SpeedKMH / 3.6; math.Abs(got-7) > 1e-9 {
		t.Errorf("first sample speed = %v m/s, want 7", got)
	}
}

func TestNormalizeOrderIndependent(t *testing.T) {
	records := []RawRecord{
		makeRecord(0, 7),
		makeRecord(30, 8),
		makeRecord(60, 9),
	}
	shuffled := []RawRecord{records[2], records[0], records[1]}

	a := Normalize(records)
	b := Normalize(shuffled)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Timestamp.Equal(b[i].Timestamp) || a[i].ElapsedMin != b[i].ElapsedMin {
			t.Errorf("sample %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNormalizeAltitudePreference(t *testing.T) {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rec     RawRecord
		want    *float64
		checkFn func(t *testing.T, got *float64)
	}{
		{
			name: "enhanced preferred over plain",
			rec: RawRecord{
				Timestamp:         base,
				AltitudeM:         floatPtr(100),
				EnhancedAltitudeM: floatPtr(102.4),
			},
			checkFn: func(t *testing.T, got *float64) {
				if got == nil || *got != 102.4 {
					t.Errorf("AltitudeM = %v, want 102.4", got)
				}
			},
		},
		{
			name: "plain used when enhanced absent",
			rec: RawRecord{
				Timestamp: base,
				AltitudeM: floatPtr(100),
			},
			checkFn: func(t *testing.T, got *float64) {
				if got == nil || *got != 100 {
					t.Errorf("AltitudeM = %v, want 100", got)
				}
			},
		},
		{
			name: "absent stays absent",
			rec:  RawRecord{Timestamp: base},
			checkFn: func(t *testing.T, got *float64) {
				if got != nil {
					t.Errorf("AltitudeM = %v, want nil", *got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := Normalize([]RawRecord{tt.rec})
			tt.checkFn(t, series[0].AltitudeM)
		})
	}
}

func TestSamplePosition(t *testing.T) {
	s := Sample{
		LatSemicircles: int32Ptr(1 << 30), // 90/2 degrees
		LonSemicircles: int32Ptr(-(1 << 30)),
	}
	lat, lon, ok := s.Position()
	if !ok {
		t.Fatal("Position() ok = false, want true")
	}
	if math.Abs(lat-45) > 1e-9 {
		t.Errorf("lat = %v, want 45", lat)
	}
	if math.Abs(lon+45) > 1e-9 {
		t.Errorf("lon = %v, want -45", lon)
	}

	if _, _, ok := (Sample{}).Position(); ok {
		t.Error("Position() on empty sample should not be ok")
	}
}

func TestColumnPresenceHelpers(t *testing.T) {
	series := TimeSeries{
		{PowerW: floatPtr(200)},
		{HeartRateBPM: floatPtr(140)},
	}
	if !series.HasPower() {
		t.Error("HasPower() = false, want true")
	}
	if !series.HasHeartRate() {
		t.Error("HasHeartRate() = false, want true")
	}
	if series.HasAltitude() {
		t.Error("HasAltitude() = true, want false")
	}
	if series.HasCadence() {
		t.Error("HasCadence() = true, want false")
	}
}

func TestPowerColumnSkipsMissing(t *testing.T) {
	series := TimeSeries{
		{PowerW: floatPtr(100)},
		{},
		{PowerW: floatPtr(300)},
	}
	got := series.PowerColumn()
	if len(got) != 2 || got[0] != 100 || got[1] != 300 {
		t.Errorf("PowerColumn() = %v, want [100 300]", got)
	}
}

func TestLoadGarbageBytes(t *testing.T) {
	if got := Load([]byte("not a fit file")); !got.Empty() {
		t.Errorf("Load(garbage) = %d samples, want empty", len(got))
	}
	if got := Load(nil); !got.Empty() {
		t.Errorf("Load(nil) = %d samples, want empty", len(got))
	}
}
