package usage

import (
	"time"

	"usage-report/internal/model"
)

// HoursPerDay is the number of hourly buckets in a report.
const HoursPerDay = 24

// Hourly holds accumulated active time per hour of day, indexed 0..23.
type Hourly [HoursPerDay]time.Duration

// Minutes returns the bucket values in minutes.
func (h Hourly) Minutes() [HoursPerDay]float64 {
	var out [HoursPerDay]float64
	for i, d := range h {
		out[i] = d.Minutes()
	}
	return out
}

func (h Hourly) Total() time.Duration {
	var total time.Duration
	for _, d := range h {
		total += d
	}
	return total
}

// Summary holds the statistics derived from the hourly buckets.
type Summary struct {
	TotalMinutes          float64 `json:"total_minutes"`
	AverageMinutesPerHour float64 `json:"average_minutes_per_hour"`
	AvailabilityHours     float64 `json:"availability_hours"`
	UtilizationPercent    float64 `json:"utilization_percent"`
	PowerWatts            float64 `json:"power_watts"`
	EnergyKWh             float64 `json:"energy_kwh"`
	Cost                  float64 `json:"cost"`
	PricePerKWh           float64 `json:"price_per_kwh"`
}

// Pairing counts how the ON/OFF scan treated the filtered records.
type Pairing struct {
	Intervals      int  `json:"intervals"`
	OrphanOffs     int  `json:"orphan_offs"`
	OverwrittenOns int  `json:"overwritten_ons"`
	OpenAtEnd      bool `json:"open_at_end"`
}

// Report is the aggregation of one channel over one range.
// This is the primary artifact for "how long was the channel on".
type Report struct {
	EntryID  string
	Range    model.TimeRange
	Hourly   Hourly
	Summary  Summary
	Pairing  Pairing
	Filtered int
}
