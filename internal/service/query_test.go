package service

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"coachdash/internal/analysis"
	"coachdash/internal/config"
	"coachdash/internal/fitfile"
	"coachdash/internal/store"
)

func floatPtr(v float64) *float64 { return &v }

func testAthlete() config.AthleteConfig {
	return config.AthleteConfig{WeightKg: 70, FTPWindow: 5}
}

// powerHRSeries builds a ride at one sample per second with constant
// heart rate and cadence and 10 m of distance per sample.
func powerHRSeries(start time.Time, watts []float64, hr, cadence float64) fitfile.TimeSeries {
	series := make(fitfile.TimeSeries, len(watts))
	for i, w := range watts {
		series[i] = fitfile.Sample{
			Timestamp:    start.Add(time.Duration(i) * time.Second),
			ElapsedMin:   float64(i) / 60,
			PowerW:       floatPtr(w),
			HeartRateBPM: floatPtr(hr),
			CadenceRPM:   floatPtr(cadence),
			SpeedKMH:     floatPtr(30),
			DistanceM:    floatPtr(float64(i) * 10),
		}
	}
	return series
}

// seedActivity caches one ride the same way a sync would.
func seedActivity(t *testing.T, st *store.Store, id, name string, series fitfile.TimeSeries) {
	t.Helper()

	row, ok := analysis.Summarize(name, series)
	if !ok {
		t.Fatalf("Summarize(%s) returned not ok", name)
	}
	if err := st.UpsertActivity(summaryToActivity(id, row, series)); err != nil {
		t.Fatalf("UpsertActivity(%s) error = %v", id, err)
	}
	if err := st.SaveSamples(id, series); err != nil {
		t.Fatalf("SaveSamples(%s) error = %v", id, err)
	}
}

func TestGetActivityDetailConfigFTP(t *testing.T) {
	st := openServiceStore(t)
	start := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	seedActivity(t, st, "r1", "morning.fit", powerHRSeries(start, []float64{200, 200, 200, 200}, 150, 90))

	athlete := testAthlete()
	athlete.FTPWatts = 260
	q := NewQueryService(st, athlete)

	detail, err := q.GetActivityDetail("r1")
	if err != nil {
		t.Fatalf("GetActivityDetail() error = %v", err)
	}
	if detail.FTPWatts != 260 {
		t.Errorf("FTPWatts = %d, want 260", detail.FTPWatts)
	}
	if detail.FTPSource != FTPSourceConfig {
		t.Errorf("FTPSource = %q, want %q", detail.FTPSource, FTPSourceConfig)
	}
	wantWkg := 260.0 / 70.0
	if math.Abs(detail.FTPWkg-wantWkg) > 1e-9 {
		t.Errorf("FTPWkg = %v, want %v", detail.FTPWkg, wantWkg)
	}
	if detail.Zones == nil {
		t.Error("Zones should be computed for a power ride")
	}
}

func TestGetActivityDetailEstimatedFTP(t *testing.T) {
	st := openServiceStore(t)
	start := time.Date(2024, 6, 2, 7, 0, 0, 0, time.UTC)
	seedActivity(t, st, "r1", "tempo.fit", powerHRSeries(start, []float64{200, 200, 200, 200}, 152, 88))

	q := NewQueryService(st, testAthlete())

	detail, err := q.GetActivityDetail("r1")
	if err != nil {
		t.Fatalf("GetActivityDetail() error = %v", err)
	}
	// Short ride, so the estimate is the plain mean.
	if detail.FTPWatts != 200 {
		t.Errorf("FTPWatts = %d, want 200", detail.FTPWatts)
	}
	if detail.FTPSource != FTPSourceEstimated {
		t.Errorf("FTPSource = %q, want %q", detail.FTPSource, FTPSourceEstimated)
	}

	// Every sample sits at FTP with positive heart rate and cadence.
	if detail.Threshold == nil {
		t.Fatal("Threshold should be present")
	}
	if detail.Threshold.AvgHeartRateBPM != 152 {
		t.Errorf("Threshold.AvgHeartRateBPM = %v, want 152", detail.Threshold.AvgHeartRateBPM)
	}
	if detail.Threshold.AvgCadenceRPM != 88 {
		t.Errorf("Threshold.AvgCadenceRPM = %v, want 88", detail.Threshold.AvgCadenceRPM)
	}
}

func TestGetActivityDetailCharts(t *testing.T) {
	st := openServiceStore(t)
	start := time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC)

	watts := make([]float64, 240)
	for i := range watts {
		watts[i] = 180
	}
	seedActivity(t, st, "r1", "long.fit", powerHRSeries(start, watts, 140, 85))

	q := NewQueryService(st, testAthlete())
	detail, err := q.GetActivityDetail("r1")
	if err != nil {
		t.Fatalf("GetActivityDetail() error = %v", err)
	}

	if len(detail.PowerChart) != chartPoints {
		t.Fatalf("PowerChart has %d points, want %d", len(detail.PowerChart), chartPoints)
	}
	for i, v := range detail.PowerChart {
		if math.Abs(v-180) > 1e-9 {
			t.Fatalf("PowerChart[%d] = %v, want 180", i, v)
		}
	}
	if detail.AltitudeChart != nil {
		t.Errorf("AltitudeChart should be nil without altitude data, got %d points", len(detail.AltitudeChart))
	}
}

func TestGetActivityDetailNotFound(t *testing.T) {
	st := openServiceStore(t)
	q := NewQueryService(st, testAthlete())

	_, err := q.GetActivityDetail("missing")
	if !errors.Is(err, store.ErrActivityNotFound) {
		t.Errorf("error = %v, want ErrActivityNotFound", err)
	}
}

func TestEstimateFTPFromRecent(t *testing.T) {
	st := openServiceStore(t)

	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 7, 0, 0, 0, time.UTC)
	}
	constant := func(w float64, n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = w
		}
		return out
	}

	seedActivity(t, st, "old", "old.fit", powerHRSeries(day(1), constant(300, 10), 150, 90))
	seedActivity(t, st, "mid", "mid.fit", powerHRSeries(day(2), constant(200, 10), 150, 90))
	seedActivity(t, st, "new", "new.fit", powerHRSeries(day(3), constant(100, 10), 150, 90))

	q := NewQueryService(st, testAthlete())

	// Window of one uses only the most recent ride.
	ftp, err := q.EstimateFTPFromRecent(1)
	if err != nil {
		t.Fatalf("EstimateFTPFromRecent(1) error = %v", err)
	}
	if ftp != 100 {
		t.Errorf("EstimateFTPFromRecent(1) = %d, want 100", ftp)
	}

	// Window of three pools all samples.
	ftp, err = q.EstimateFTPFromRecent(3)
	if err != nil {
		t.Fatalf("EstimateFTPFromRecent(3) error = %v", err)
	}
	if ftp != 200 {
		t.Errorf("EstimateFTPFromRecent(3) = %d, want 200", ftp)
	}
}

func TestEstimateFTPFromRecentSkipsPowerlessRides(t *testing.T) {
	st := openServiceStore(t)

	withPower := powerHRSeries(time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC), []float64{220, 220}, 150, 90)
	seedActivity(t, st, "p1", "power.fit", withPower)

	// A newer ride with no power meter must not shrink the window.
	noPower := fitfile.TimeSeries{
		{Timestamp: time.Date(2024, 6, 5, 7, 0, 0, 0, time.UTC), SpeedKMH: floatPtr(25)},
		{Timestamp: time.Date(2024, 6, 5, 7, 0, 1, 0, time.UTC), ElapsedMin: 1.0 / 60, SpeedKMH: floatPtr(26)},
	}
	seedActivity(t, st, "n1", "nopower.fit", noPower)

	q := NewQueryService(st, testAthlete())
	ftp, err := q.EstimateFTPFromRecent(1)
	if err != nil {
		t.Fatalf("EstimateFTPFromRecent(1) error = %v", err)
	}
	if ftp != 220 {
		t.Errorf("EstimateFTPFromRecent(1) = %d, want 220", ftp)
	}
}

func TestGetTrendReport(t *testing.T) {
	st := openServiceStore(t)

	day := func(d int) time.Time {
		return time.Date(2024, 7, d, 7, 0, 0, 0, time.UTC)
	}

	// Insert out of date order to prove the report sorts.
	seedActivity(t, st, "b", "second.fit", powerHRSeries(day(10), []float64{200, 200, 200}, 148, 87))
	seedActivity(t, st, "a", "first.fit", powerHRSeries(day(1), []float64{180, 180, 180}, 150, 90))
	seedActivity(t, st, "c", "third.fit", powerHRSeries(day(20), []float64{210, 210, 210}, 145, 85))

	athlete := testAthlete()
	athlete.FTPWatts = 200
	q := NewQueryService(st, athlete)

	report, err := q.GetTrendReport()
	if err != nil {
		t.Fatalf("GetTrendReport() error = %v", err)
	}

	rows := report.Dataset.Rows
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	wantOrder := []string{"first.fit", "second.fit", "third.fit"}
	for i, want := range wantOrder {
		if rows[i].Name != want {
			t.Errorf("rows[%d].Name = %q, want %q", i, rows[i].Name, want)
		}
	}

	if report.Dataset.Totals.Activities != 3 {
		t.Errorf("Totals.Activities = %d, want 3", report.Dataset.Totals.Activities)
	}
	if report.Dataset.PowerDeltaW == nil {
		t.Fatal("PowerDeltaW should be set")
	}
	if math.Abs(*report.Dataset.PowerDeltaW-30) > 1e-9 {
		t.Errorf("PowerDeltaW = %v, want 30", *report.Dataset.PowerDeltaW)
	}

	if report.FTPWatts != 200 || report.FTPSource != FTPSourceConfig {
		t.Errorf("FTP = %d (%s), want 200 (config)", report.FTPWatts, report.FTPSource)
	}

	// 200 W and 210 W sit within 5% of the 200 W threshold; 180 W does not.
	if len(report.Threshold) != 2 {
		t.Fatalf("got %d threshold rows, want 2: %+v", len(report.Threshold), report.Threshold)
	}
	if report.Threshold[0].Name != "second.fit" || report.Threshold[1].Name != "third.fit" {
		t.Errorf("threshold rows out of order: %+v", report.Threshold)
	}
	if report.Threshold[0].AvgHeartRateBPM != 148 {
		t.Errorf("threshold row HR = %v, want 148", report.Threshold[0].AvgHeartRateBPM)
	}
}

func TestGetTrendReportEmptyCache(t *testing.T) {
	st := openServiceStore(t)
	q := NewQueryService(st, testAthlete())

	report, err := q.GetTrendReport()
	if err != nil {
		t.Fatalf("GetTrendReport() error = %v", err)
	}
	if len(report.Dataset.Rows) != 0 {
		t.Errorf("got %d rows, want 0", len(report.Dataset.Rows))
	}
	if report.Dataset.PowerDeltaW != nil {
		t.Error("PowerDeltaW should be nil with no rides")
	}
	if report.FTPWatts != analysis.DefaultFTPWatts {
		t.Errorf("FTPWatts = %d, want the %d default", report.FTPWatts, analysis.DefaultFTPWatts)
	}
	if report.Threshold != nil {
		t.Errorf("Threshold should be nil, got %+v", report.Threshold)
	}
}

func TestDownsample(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		n      int
		want   []float64
	}{
		{
			name:   "empty",
			values: nil,
			n:      4,
			want:   nil,
		},
		{
			name:   "shorter than target",
			values: []float64{1, 2, 3},
			n:      10,
			want:   []float64{1, 2, 3},
		},
		{
			name:   "even buckets",
			values: []float64{1, 1, 2, 2, 3, 3},
			n:      3,
			want:   []float64{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := downsample(tt.values, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d points, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGetActivitiesListPagination(t *testing.T) {
	st := openServiceStore(t)

	for i := 1; i <= 5; i++ {
		start := time.Date(2024, 8, i, 7, 0, 0, 0, time.UTC)
		seedActivity(t, st, fmt.Sprintf("r%d", i), fmt.Sprintf("ride%d.fit", i),
			powerHRSeries(start, []float64{200, 200}, 150, 90))
	}

	q := NewQueryService(st, testAthlete())

	count, err := q.GetTotalActivityCount()
	if err != nil {
		t.Fatalf("GetTotalActivityCount() error = %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}

	page, err := q.GetActivitiesList(2, 2)
	if err != nil {
		t.Fatalf("GetActivitiesList() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d activities, want 2", len(page))
	}
	// Newest first: page 2 holds rides 3 and 2.
	if page[0].Name != "ride3.fit" || page[1].Name != "ride2.fit" {
		t.Errorf("page = [%s %s], want [ride3.fit ride2.fit]", page[0].Name, page[1].Name)
	}
}
