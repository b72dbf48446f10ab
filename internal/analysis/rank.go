package analysis

import (
	"sort"

	"usage-report/internal/model"
)

// GroupByEntry splits records into entry-keyed slices, keeping input order within each.
func GroupByEntry(records []model.LogRecord) map[string][]model.LogRecord {
	out := map[string][]model.LogRecord{}
	for _, r := range records {
		out[r.EntryID] = append(out[r.EntryID], r)
	}
	return out
}

// RankChannels computes usage per entry and sorts descending by active minutes.
// Channels without records inside the range are left out.
func RankChannels(records []model.LogRecord, rng model.TimeRange) ([]ChannelUsage, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	byEntry := GroupByEntry(records)
	out := make([]ChannelUsage, 0, len(byEntry))
	for entry, recs := range byEntry {
		if entry == "" {
			continue
		}
		u, err := ComputeUsage(recs, entry, rng)
		if err != nil {
			if model.KindOf(err) == model.KindNoData {
				continue
			}
			return nil, err
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ActiveMinutes != out[j].ActiveMinutes {
			return out[i].ActiveMinutes > out[j].ActiveMinutes
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out, nil
}
