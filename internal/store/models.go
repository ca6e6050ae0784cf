package store

import "time"

// Activity is the cached summary of one synced ride, keyed by the
// Drive file id it was parsed from. StartDate is the timestamp of the
// first sample, which is what every date ordering in the app uses.
type Activity struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	StartDate       time.Time `db:"start_date"`
	SampleCount     int       `db:"sample_count"`
	DistanceKM      float64   `db:"distance_km"`
	DurationMin     float64   `db:"duration_min"`
	AvgSpeedKMH     float64   `db:"avg_speed_kmh"`
	AvgPowerW       float64   `db:"avg_power_w"`
	AvgCadenceRPM   float64   `db:"avg_cadence_rpm"`
	AvgHeartRateBPM float64   `db:"avg_heart_rate_bpm"`
	ElevationGainM  float64   `db:"elevation_gain_m"`
	HasPower        bool      `db:"has_power"`
	FetchedAt       time.Time `db:"fetched_at"`
}
