package store

import (
	"fmt"
	"time"

	"coachdash/internal/fitfile"
)

// SaveSamples stores the normalized time series for an activity.
// It replaces any existing samples for the activity in one transaction.
func (s *Store) SaveSamples(activityID string, series fitfile.TimeSeries) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete existing samples for this activity
	if _, err := tx.Exec("DELETE FROM samples WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("deleting existing samples: %w", err)
	}

	// Prepare insert statement
	stmt, err := tx.Prepare(`
		INSERT INTO samples (
			activity_id, seq, timestamp, elapsed_min, distance_m, speed_kmh,
			altitude_m, power_w, heart_rate_bpm, cadence_rpm,
			lat_semicircles, lon_semicircles
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	// Insert all samples
	for i, p := range series {
		_, err := stmt.Exec(
			activityID, i, p.Timestamp.Format(time.RFC3339), p.ElapsedMin,
			p.DistanceM, p.SpeedKMH, p.AltitudeM, p.PowerW,
			p.HeartRateBPM, p.CadenceRPM, p.LatSemicircles, p.LonSemicircles,
		)
		if err != nil {
			return fmt.Errorf("inserting sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetSamples retrieves the cached time series for an activity,
// ordered by sequence number.
func (s *Store) GetSamples(activityID string) (fitfile.TimeSeries, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, elapsed_min, distance_m, speed_kmh, altitude_m,
			power_w, heart_rate_bpm, cadence_rpm, lat_semicircles, lon_semicircles
		FROM samples
		WHERE activity_id = ?
		ORDER BY seq
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series fitfile.TimeSeries
	for rows.Next() {
		var p fitfile.Sample
		var ts string
		err := rows.Scan(
			&ts, &p.ElapsedMin, &p.DistanceM, &p.SpeedKMH, &p.AltitudeM,
			&p.PowerW, &p.HeartRateBPM, &p.CadenceRPM,
			&p.LatSemicircles, &p.LonSemicircles,
		)
		if err != nil {
			return nil, err
		}
		p.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", ts, err)
		}
		series = append(series, p)
	}

	return series, rows.Err()
}

// GetSampleCount returns the number of cached samples for an activity.
func (s *Store) GetSampleCount(activityID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM samples WHERE activity_id = ?", activityID).Scan(&count)
	return count, err
}
