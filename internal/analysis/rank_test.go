package analysis

import (
	"testing"
	"time"

	"usage-report/internal/model"
)

func at(entry string, state model.State, hour, minute int) model.LogRecord {
	return model.LogRecord{
		EntryID:   entry,
		State:     state,
		Timestamp: time.Date(2024, 3, 1, hour, minute, 0, 0, time.UTC),
	}
}

func TestRankChannels(t *testing.T) {
	rng, err := model.ParseTimeRange("2024-03-01", "2024-03-02", false)
	if err != nil {
		t.Fatal(err)
	}
	records := []model.LogRecord{
		at("1", model.StateOn, 8, 0),
		at("2", model.StateOn, 8, 0),
		at("1", model.StateOff, 8, 10),
		at("2", model.StateOff, 9, 0),
		at("2", model.StateOn, 14, 0),
		at("2", model.StateOff, 14, 30),
		at("3", model.StateOn, 10, 0),
		at("3", model.StateOff, 10, 10),
		at("", model.StateOn, 1, 0),
		{EntryID: "4", State: model.StateOn, Timestamp: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}

	ranked, err := RankChannels(records, rng)
	if err != nil {
		t.Fatalf("RankChannels: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("got %d channels, want 3: %+v", len(ranked), ranked)
	}

	wantOrder := []string{"2", "1", "3"}
	for i, id := range wantOrder {
		if ranked[i].EntryID != id {
			t.Fatalf("rank %d = %s, want %s", i, ranked[i].EntryID, id)
		}
	}

	top := ranked[0]
	if top.ActiveMinutes != 90 || top.Intervals != 2 || top.Records != 4 || top.PeakHour != 8 {
		t.Fatalf("unexpected top channel %+v", top)
	}
}

func TestRankChannelsInvalidRange(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := RankChannels(nil, model.TimeRange{Start: day, End: day})
	if model.KindOf(err) != model.KindInvalidRange {
		t.Fatalf("got %v, want %s", err, model.KindInvalidRange)
	}
}

func TestComputeUsageIdleChannel(t *testing.T) {
	rng, _ := model.ParseTimeRange("2024-03-01", "2024-03-02", false)
	u, err := ComputeUsage([]model.LogRecord{at("5", model.StateOff, 3, 0)}, "5", rng)
	if err != nil {
		t.Fatalf("ComputeUsage: %v", err)
	}
	if u.PeakHour != -1 || u.ActiveMinutes != 0 {
		t.Fatalf("idle channel reported activity: %+v", u)
	}
}
