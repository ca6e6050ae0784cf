package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Drive   DriveConfig   `json:"drive"`
	Athlete AthleteConfig `json:"athlete"`
	Display DisplayConfig `json:"display"`
}

// DriveConfig holds the Google Drive source settings
type DriveConfig struct {
	FolderID        string `json:"folder_id"`
	CredentialsFile string `json:"credentials_file"`
}

// AthleteConfig holds rider-specific settings
type AthleteConfig struct {
	WeightKg float64 `json:"weight_kg"`
	// FTPWatts overrides the estimator when positive; 0 means estimate
	// from ride data.
	FTPWatts int `json:"ftp_watts"`
	// FTPWindow is how many recent rides feed the multi-ride estimate.
	FTPWindow int `json:"ftp_window"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
}

// Athlete bounds enforced by Validate.
const (
	MinWeightKg = 30
	MaxWeightKg = 150
	MinFTPWatts = 50
	MaxFTPWatts = 600
)

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			WeightKg:  60,
			FTPWindow: 5,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
		},
	}
}

// Load reads the configuration from ~/.coachdash/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Athlete.WeightKg == 0 {
		cfg.Athlete.WeightKg = defaults.Athlete.WeightKg
	}
	if cfg.Athlete.FTPWindow == 0 {
		cfg.Athlete.FTPWindow = defaults.Athlete.FTPWindow
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.coachdash/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Drive = DriveConfig{
		FolderID:        "YOUR_FOLDER_ID",
		CredentialsFile: "/path/to/service-account.json",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Drive.FolderID == "" || c.Drive.FolderID == "YOUR_FOLDER_ID" {
		return errors.New("drive.folder_id is required - the id of the Drive folder holding the .fit files")
	}
	if c.Drive.CredentialsFile == "" || c.Drive.CredentialsFile == "/path/to/service-account.json" {
		return errors.New("drive.credentials_file is required - path to a Google service-account key file")
	}

	if c.Athlete.WeightKg < MinWeightKg || c.Athlete.WeightKg > MaxWeightKg {
		return fmt.Errorf("athlete.weight_kg (%v) must be between %d and %d", c.Athlete.WeightKg, MinWeightKg, MaxWeightKg)
	}
	if c.Athlete.FTPWatts != 0 && (c.Athlete.FTPWatts < MinFTPWatts || c.Athlete.FTPWatts > MaxFTPWatts) {
		return fmt.Errorf("athlete.ftp_watts (%d) must be 0 (estimate) or between %d and %d", c.Athlete.FTPWatts, MinFTPWatts, MaxFTPWatts)
	}
	if c.Athlete.FTPWindow < 1 {
		return fmt.Errorf("athlete.ftp_window (%d) must be at least 1", c.Athlete.FTPWindow)
	}

	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".coachdash", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".coachdash"), nil
}
