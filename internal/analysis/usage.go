package analysis

import (
	"math"

	"usage-report/internal/model"
	"usage-report/internal/usage"
)

// ChannelUsage is a channel-level summary you can use to pick which entry to report on.
// It does not depend on motor power or tariff.
type ChannelUsage struct {
	EntryID string `json:"entry_id"`

	// Records counts this channel's transitions inside the range.
	Records int `json:"records"`

	ActiveMinutes      float64 `json:"active_minutes"`
	UtilizationPercent float64 `json:"utilization_percent"`
	Intervals          int     `json:"intervals"`

	// PeakHour is the hour of day with the most active time, -1 when the channel never ran.
	PeakHour int `json:"peak_hour"`
}

// ComputeUsage aggregates one channel with the same pairing rules as a full report.
func ComputeUsage(records []model.LogRecord, entryID string, rng model.TimeRange) (ChannelUsage, error) {
	rep, err := usage.Aggregate(records, usage.Params{EntryID: entryID, Range: rng})
	if err != nil {
		return ChannelUsage{}, err
	}

	u := ChannelUsage{
		EntryID:            entryID,
		Records:            rep.Filtered,
		ActiveMinutes:      rep.Summary.TotalMinutes,
		UtilizationPercent: rep.Summary.UtilizationPercent,
		Intervals:          rep.Pairing.Intervals,
		PeakHour:           peakHour(rep.Hourly),
	}
	return u, nil
}

func peakHour(h usage.Hourly) int {
	peak := -1
	best := math.Inf(-1)
	for hour, d := range h {
		if d > 0 && float64(d) > best {
			best = float64(d)
			peak = hour
		}
	}
	return peak
}
