package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activities (one row per synced Drive file)
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			sample_count INTEGER NOT NULL,
			distance_km REAL NOT NULL,
			duration_min REAL NOT NULL,
			avg_speed_kmh REAL NOT NULL,
			avg_power_w REAL NOT NULL,
			avg_cadence_rpm REAL NOT NULL,
			avg_heart_rate_bpm REAL NOT NULL,
			elevation_gain_m REAL NOT NULL,
			has_power INTEGER NOT NULL,
			fetched_at TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_has_power ON activities(has_power)`,

		// Samples (per-second normalized time series)
		`CREATE TABLE IF NOT EXISTS samples (
			activity_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			elapsed_min REAL NOT NULL,
			distance_m REAL,
			speed_kmh REAL,
			altitude_m REAL,
			power_w REAL,
			heart_rate_bpm REAL,
			cadence_rpm REAL,
			lat_semicircles INTEGER,
			lon_semicircles INTEGER,
			PRIMARY KEY (activity_id, seq),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_samples_activity ON samples(activity_id)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
