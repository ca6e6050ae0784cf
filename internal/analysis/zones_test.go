package analysis

import (
	"math"
	"testing"
)

func TestTimeInZonesBoundaries(t *testing.T) {
	const ftp = 200

	tests := []struct {
		name     string
		watts    float64
		wantZone string
	}{
		{"zero power is recovery", 0, "Z1 Recovery"},
		{"well below endurance", 100, "Z1 Recovery"},
		{"recovery upper edge", 109, "Z1 Recovery"},
		{"endurance lower edge inclusive", 110, "Z2 Endurance"},
		{"tempo lower edge inclusive", 150, "Z3 Tempo"},
		{"threshold lower edge inclusive", 180, "Z4 Threshold"},
		{"vo2 lower edge inclusive", 210, "Z5+ VO2Max"},
		{"far above threshold", 400, "Z5+ VO2Max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zones := TimeInZones(powerSeries(tt.watts), ftp)
			if zones == nil {
				t.Fatal("TimeInZones() = nil")
			}
			for _, z := range zones {
				if z.Seconds == 0 {
					continue
				}
				if z.Label != tt.wantZone {
					t.Errorf("%vW landed in %q, want %q", tt.watts, z.Label, tt.wantZone)
				}
				if z.Seconds != 1 {
					t.Errorf("zone %q Seconds = %d, want 1", z.Label, z.Seconds)
				}
			}
		})
	}
}

func TestTimeInZonesDistribution(t *testing.T) {
	// 60 samples recovery, 120 endurance, 120 tempo at FTP 200.
	var watts []float64
	for i := 0; i < 60; i++ {
		watts = append(watts, 100)
	}
	for i := 0; i < 120; i++ {
		watts = append(watts, 130)
	}
	for i := 0; i < 120; i++ {
		watts = append(watts, 160)
	}

	zones := TimeInZones(powerSeries(watts...), 200)
	if len(zones) != 5 {
		t.Fatalf("got %d zones, want 5", len(zones))
	}

	if zones[0].Seconds != 60 || zones[1].Seconds != 120 || zones[2].Seconds != 120 {
		t.Errorf("seconds = [%d %d %d], want [60 120 120]",
			zones[0].Seconds, zones[1].Seconds, zones[2].Seconds)
	}
	if zones[1].Minutes != 2.0 {
		t.Errorf("Z2 Minutes = %v, want 2.0", zones[1].Minutes)
	}
	if zones[0].Minutes != 1.0 {
		t.Errorf("Z1 Minutes = %v, want 1.0", zones[0].Minutes)
	}

	var pctSum float64
	for _, z := range zones {
		pctSum += z.Percent
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", pctSum)
	}
	if math.Abs(zones[0].Percent-20) > 1e-9 {
		t.Errorf("Z1 Percent = %v, want 20", zones[0].Percent)
	}
}

func TestTimeInZonesMinutesRounding(t *testing.T) {
	zones := TimeInZones(constantPower(100, 100), 200)
	// 100s = 1.666 min, rounded to one decimal
	if zones[0].Minutes != 1.7 {
		t.Errorf("Minutes = %v, want 1.7", zones[0].Minutes)
	}
}

func TestTimeInZonesNoData(t *testing.T) {
	if got := TimeInZones(nil, 200); got != nil {
		t.Errorf("TimeInZones(empty) = %v, want nil", got)
	}
	if got := TimeInZones(powerSeries(150), 0); got != nil {
		t.Errorf("TimeInZones(ftp=0) = %v, want nil", got)
	}
	if got := TimeInZones(powerSeries(150), -100); got != nil {
		t.Errorf("TimeInZones(ftp<0) = %v, want nil", got)
	}
}
