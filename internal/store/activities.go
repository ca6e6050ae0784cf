package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activityColumns = `id, name, start_date, sample_count, distance_km, duration_min,
	avg_speed_kmh, avg_power_w, avg_cadence_rpm, avg_heart_rate_bpm,
	elevation_gain_m, has_power, fetched_at`

// UpsertActivity inserts or updates an activity summary row.
func (s *Store) UpsertActivity(a *Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (
			id, name, start_date, sample_count, distance_km, duration_min,
			avg_speed_kmh, avg_power_w, avg_cadence_rpm, avg_heart_rate_bpm,
			elevation_gain_m, has_power, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			sample_count = excluded.sample_count,
			distance_km = excluded.distance_km,
			duration_min = excluded.duration_min,
			avg_speed_kmh = excluded.avg_speed_kmh,
			avg_power_w = excluded.avg_power_w,
			avg_cadence_rpm = excluded.avg_cadence_rpm,
			avg_heart_rate_bpm = excluded.avg_heart_rate_bpm,
			elevation_gain_m = excluded.elevation_gain_m,
			has_power = excluded.has_power,
			fetched_at = excluded.fetched_at,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, a.StartDate.Format(time.RFC3339), a.SampleCount,
		a.DistanceKM, a.DurationMin, a.AvgSpeedKMH, a.AvgPowerW,
		a.AvgCadenceRPM, a.AvgHeartRateBPM, a.ElevationGainM,
		boolToInt64(a.HasPower), a.FetchedAt.Format(time.RFC3339),
	)
	return err
}

// GetActivity retrieves an activity by its Drive file id.
func (s *Store) GetActivity(id string) (*Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// HasActivity checks whether an activity is already cached.
func (s *Store) HasActivity(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM activities WHERE id = ? LIMIT 1`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListActivities returns activities ordered by start date descending.
func (s *Store) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_date DESC, name
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListRecentWithPower returns the n most recent activities that carry
// power data, newest first.
func (s *Store) ListRecentWithPower(n int) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE has_power = 1
		ORDER BY start_date DESC, name
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of cached activities.
func (s *Store) CountActivities() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&count)
	return count, err
}

// DeleteActivity removes an activity and, via the foreign key cascade,
// its samples.
func (s *Store) DeleteActivity(id string) error {
	_, err := s.db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var startDate, fetchedAt string
	var hasPower int64

	err := row.Scan(
		&a.ID, &a.Name, &startDate, &a.SampleCount, &a.DistanceKM,
		&a.DurationMin, &a.AvgSpeedKMH, &a.AvgPowerW, &a.AvgCadenceRPM,
		&a.AvgHeartRateBPM, &a.ElevationGainM, &hasPower, &fetchedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	a.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched_at %q: %w", fetchedAt, err)
	}
	a.HasPower = hasPower == 1

	return &a, nil
}

func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
