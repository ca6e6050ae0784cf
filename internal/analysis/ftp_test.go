package analysis

import (
	"testing"
	"time"

	"coachdash/internal/fitfile"
)

// Helper functions for creating test data
func floatPtr(f float64) *float64 {
	return &f
}

// powerSeries builds a 1 Hz series carrying only a power column.
func powerSeries(watts ...float64) fitfile.TimeSeries {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	series := make(fitfile.TimeSeries, len(watts))
	for i, w := range watts {
		series[i] = fitfile.Sample{
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			ElapsedMin: float64(i) / 60,
			PowerW:     floatPtr(w),
		}
	}
	return series
}

// constantPower builds n samples all at the given wattage.
func constantPower(watts float64, n int) fitfile.TimeSeries {
	values := make([]float64, n)
	for i := range values {
		values[i] = watts
	}
	return powerSeries(values...)
}

func TestEstimateFTP(t *testing.T) {
	tests := []struct {
		name   string
		series fitfile.TimeSeries
		want   int
	}{
		{
			name:   "no power data falls back to default",
			series: fitfile.TimeSeries{{}, {}},
			want:   DefaultFTPWatts,
		},
		{
			name:   "empty series falls back to default",
			series: nil,
			want:   DefaultFTPWatts,
		},
		{
			name:   "short ride uses truncated mean",
			series: powerSeries(100, 200, 251),
			// mean = 183.67, truncated
			want: 183,
		},
		{
			name:   "constant 100W over full window",
			series: constantPower(100, 1200),
			// best 20-min mean 100 x 0.95
			want: 95,
		},
		{
			name:   "exactly one sample short of window still uses mean",
			series: constantPower(100, 1199),
			want:   100,
		},
		{
			name: "best window dominates",
			series: append(constantPower(100, 1200),
				constantPower(300, 1200)...),
			// best window sits entirely in the 300W block
			want: 285,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateFTP(tt.series); got != tt.want {
				t.Errorf("EstimateFTP() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateFTPAcross(t *testing.T) {
	tests := []struct {
		name   string
		series []fitfile.TimeSeries
		want   int
	}{
		{
			name:   "no rides",
			series: nil,
			want:   DefaultFTPWatts,
		},
		{
			name: "rides without power",
			series: []fitfile.TimeSeries{
				{{}, {}},
				{{}},
			},
			want: DefaultFTPWatts,
		},
		{
			name: "short rides combine into a full window",
			series: []fitfile.TimeSeries{
				constantPower(200, 600),
				constantPower(200, 600),
			},
			want: 190,
		},
		{
			name: "combined but still short uses mean",
			series: []fitfile.TimeSeries{
				powerSeries(100, 100),
				powerSeries(200, 200),
			},
			want: 150,
		},
		{
			name: "rides without power are transparent",
			series: []fitfile.TimeSeries{
				{{}, {}},
				powerSeries(220, 220, 220),
			},
			want: 220,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateFTPAcross(tt.series); got != tt.want {
				t.Errorf("EstimateFTPAcross() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBestRollingMean(t *testing.T) {
	values := []float64{0, 0, 10, 10, 10, 0}
	if got := bestRollingMean(values, 3); got != 10 {
		t.Errorf("bestRollingMean() = %v, want 10", got)
	}
	if got := bestRollingMean([]float64{5, 5, 5}, 3); got != 5 {
		t.Errorf("bestRollingMean() = %v, want 5", got)
	}
}
