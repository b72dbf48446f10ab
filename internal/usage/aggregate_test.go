package usage

import (
	"errors"
	"math"
	"testing"
	"time"

	"usage-report/internal/model"
)

func rec(entry string, state model.State, ts string) model.LogRecord {
	t, err := time.ParseInLocation("02/01/2006 15:04:05", ts, time.UTC)
	if err != nil {
		panic(err)
	}
	return model.LogRecord{EntryID: entry, State: state, Timestamp: t}
}

func dayRange(t *testing.T) model.TimeRange {
	t.Helper()
	r, err := model.ParseTimeRange("2024-03-01", "2024-03-02", false)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestAggregateSingleInterval(t *testing.T) {
	records := []model.LogRecord{
		rec("7", model.StateOn, "01/03/2024 09:00:00"),
		rec("7", model.StateOff, "01/03/2024 09:30:00"),
	}
	rep, err := Aggregate(records, Params{EntryID: "7", Range: dayRange(t)})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got := rep.Hourly[9]; got != 30*time.Minute {
		t.Fatalf("hour 9 = %v, want 30m", got)
	}
	if rep.Summary.TotalMinutes != 30 {
		t.Fatalf("total = %v, want 30", rep.Summary.TotalMinutes)
	}
	if rep.Summary.AverageMinutesPerHour != 1.25 {
		t.Fatalf("average = %v, want 1.25", rep.Summary.AverageMinutesPerHour)
	}
	if rep.Pairing.Intervals != 1 || rep.Filtered != 2 {
		t.Fatalf("unexpected pairing %+v filtered %d", rep.Pairing, rep.Filtered)
	}
}

func TestAggregateIntervalCountsInOnHour(t *testing.T) {
	records := []model.LogRecord{
		rec("7", model.StateOn, "01/03/2024 09:50:00"),
		rec("7", model.StateOff, "01/03/2024 10:10:00"),
	}
	rep, err := Aggregate(records, Params{EntryID: "7", Range: dayRange(t)})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rep.Hourly[9] != 20*time.Minute || rep.Hourly[10] != 0 {
		t.Fatalf("hour 9 = %v, hour 10 = %v; want 20m and 0", rep.Hourly[9], rep.Hourly[10])
	}
}

func TestAggregateUnpairedTransitions(t *testing.T) {
	records := []model.LogRecord{
		rec("7", model.StateOff, "01/03/2024 07:00:00"), // nothing pending
		rec("7", model.StateOn, "01/03/2024 08:00:00"),
		rec("7", model.StateOn, "01/03/2024 08:30:00"), // replaces 08:00
		rec("7", model.StateOff, "01/03/2024 08:45:00"),
		rec("7", model.StateOn, "01/03/2024 22:00:00"), // never closed
	}
	rep, err := Aggregate(records, Params{EntryID: "7", Range: dayRange(t)})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rep.Hourly[8] != 15*time.Minute {
		t.Fatalf("hour 8 = %v, want 15m", rep.Hourly[8])
	}
	if rep.Hourly[22] != 0 {
		t.Fatalf("trailing ON counted: %v", rep.Hourly[22])
	}
	want := Pairing{Intervals: 1, OrphanOffs: 1, OverwrittenOns: 1, OpenAtEnd: true}
	if rep.Pairing != want {
		t.Fatalf("pairing = %+v, want %+v", rep.Pairing, want)
	}
	if rep.Summary.TotalMinutes != 15 {
		t.Fatalf("total = %v, want 15", rep.Summary.TotalMinutes)
	}
}

func TestAggregateFiltersChannelAndRange(t *testing.T) {
	records := []model.LogRecord{
		rec("7", model.StateOn, "29/02/2024 23:00:00"), // before range
		rec("8", model.StateOn, "01/03/2024 09:00:00"),
		rec("7", model.StateOn, "01/03/2024 09:00:00"),
		rec("8", model.StateOff, "01/03/2024 09:10:00"),
		rec("7", model.StateOff, "01/03/2024 09:40:00"),
		rec("7", model.StateOn, "02/03/2024 06:00:00"), // after end midnight
		rec("7", model.StateOff, "02/03/2024 07:00:00"),
	}
	rep, err := Aggregate(records, Params{EntryID: "7", Range: dayRange(t)})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rep.Filtered != 2 {
		t.Fatalf("filtered = %d, want 2", rep.Filtered)
	}
	if rep.Hourly[9] != 40*time.Minute || rep.Hourly[6] != 0 || rep.Hourly[23] != 0 {
		t.Fatalf("unexpected buckets %v", rep.Hourly)
	}
}

func TestAggregateNoData(t *testing.T) {
	records := []model.LogRecord{
		rec("8", model.StateOn, "01/03/2024 09:00:00"),
		rec("8", model.StateOff, "01/03/2024 09:10:00"),
	}
	_, err := Aggregate(records, Params{EntryID: "7", Range: dayRange(t)})
	if model.KindOf(err) != model.KindNoData {
		t.Fatalf("got %v, want %s", err, model.KindNoData)
	}
}

func TestAggregateZeroLengthRange(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := Aggregate(nil, Params{EntryID: "7", Range: model.TimeRange{Start: day, End: day}})
	if model.KindOf(err) != model.KindInvalidRange {
		t.Fatalf("got %v, want %s", err, model.KindInvalidRange)
	}
	if !errors.Is(err, model.ErrZeroLengthRange) {
		t.Fatalf("error should wrap ErrZeroLengthRange")
	}
}

func TestAggregateRejectsInvalidParams(t *testing.T) {
	tests := []Params{
		{EntryID: "", Range: dayRange(t)},
		{EntryID: "7", Range: dayRange(t), Motor: model.Motor{PowerCV: -1}},
		{EntryID: "7", Range: dayRange(t), Tariff: model.Tariff{PricePerKWh: math.NaN()}},
	}
	for i, p := range tests {
		if _, err := Aggregate(nil, p); model.KindOf(err) != model.KindInvalidInput {
			t.Errorf("case %d: got %v, want %s", i, err, model.KindInvalidInput)
		}
	}
}

func TestSummarizeUtilization(t *testing.T) {
	var h Hourly
	h[0] = 600 * time.Minute
	s, err := Summarize(h, Params{Range: dayRange(t)})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.UtilizationPercent != 42 {
		t.Fatalf("utilization = %v, want 42", s.UtilizationPercent)
	}
	if s.AvailabilityHours != 24 || s.AverageMinutesPerHour != 25 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSummarizeEnergyAndCost(t *testing.T) {
	var h Hourly
	h[14] = 90 * time.Minute
	h[15] = 30 * time.Minute
	s, err := Summarize(h, Params{
		Range:  dayRange(t),
		Motor:  model.Motor{PowerCV: 2},
		Tariff: model.Tariff{PricePerKWh: 0.5},
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.PowerWatts != 1471 {
		t.Fatalf("power = %v, want 1471", s.PowerWatts)
	}
	if s.EnergyKWh != 2.94 {
		t.Fatalf("energy = %v, want 2.94", s.EnergyKWh)
	}
	if s.Cost != 1.47 || s.PricePerKWh != 0.5 {
		t.Fatalf("cost = %v at %v, want 1.47 at 0.5", s.Cost, s.PricePerKWh)
	}
}
