package tui

import (
	"fmt"

	"coachdash/internal/config"
)

const kmPerMile = 1.609344

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in kilometers to the user's preferred unit
func (u Units) FormatDistance(km float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.1f mi", km/kmPerMile)
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatSpeed formats a speed in km/h to the user's preferred unit
func (u Units) FormatSpeed(kmh float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.1f mph", kmh/kmPerMile)
	}
	return fmt.Sprintf("%.1f km/h", kmh)
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.cfg.DistanceUnit == "mi" {
		return "mi"
	}
	return "km"
}

// SpeedLabel returns the speed unit label ("mph" or "km/h")
func (u Units) SpeedLabel() string {
	if u.cfg.DistanceUnit == "mi" {
		return "mph"
	}
	return "km/h"
}

// ConvertSpeedData converts a km/h chart column for display
func (u Units) ConvertSpeedData(kmh []float64) []float64 {
	if u.cfg.DistanceUnit != "mi" {
		return kmh
	}
	converted := make([]float64, len(kmh))
	for i, v := range kmh {
		converted[i] = v / kmPerMile
	}
	return converted
}

// formatDuration renders a duration in minutes as "1h 23m" or "45m".
func formatDuration(minutes float64) string {
	total := int(minutes)
	h := total / 60
	m := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
