package usage

import (
	"fmt"
	"math"
	"time"

	"usage-report/internal/model"
)

// Params selects the channel and window to aggregate and the load used for the energy figures.
type Params struct {
	EntryID string
	Range   model.TimeRange
	Motor   model.Motor
	Tariff  model.Tariff
}

func (p Params) Validate() error {
	if p.EntryID == "" {
		return model.NewError(model.KindInvalidInput, "entry id is required", nil)
	}
	if err := p.Range.Validate(); err != nil {
		return err
	}
	if err := p.Motor.Validate(); err != nil {
		return model.NewError(model.KindInvalidInput, "invalid motor power", err)
	}
	if err := p.Tariff.Validate(); err != nil {
		return model.NewError(model.KindInvalidInput, "invalid price per kWh", err)
	}
	return nil
}

// Aggregate pairs ON and OFF transitions of one channel and buckets active time by the
// hour of day of each ON event.
//
// A second ON before an OFF replaces the pending one. An OFF with nothing pending is ignored,
// and an ON still pending when the records run out contributes nothing.
func Aggregate(records []model.LogRecord, p Params) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rep := &Report{EntryID: p.EntryID, Range: p.Range}

	var pending *time.Time
	for _, rec := range records {
		if rec.EntryID != p.EntryID || !p.Range.Contains(rec.Timestamp) {
			continue
		}
		rep.Filtered++

		ts := rec.Timestamp
		switch rec.State {
		case model.StateOn:
			if pending != nil {
				rep.Pairing.OverwrittenOns++
			}
			pending = &ts
		case model.StateOff:
			if pending == nil {
				rep.Pairing.OrphanOffs++
				continue
			}
			rep.Hourly[pending.Hour()] += ts.Sub(*pending)
			rep.Pairing.Intervals++
			pending = nil
		}
	}
	rep.Pairing.OpenAtEnd = pending != nil

	if rep.Filtered == 0 {
		return nil, model.NewError(model.KindNoData,
			fmt.Sprintf("no records for entry %s between %s and %s", p.EntryID,
				p.Range.Start.Format(model.DateLayout), p.Range.End.Format(model.DateLayout)), nil)
	}

	sum, err := Summarize(rep.Hourly, p)
	if err != nil {
		return nil, err
	}
	rep.Summary = sum
	return rep, nil
}

// Summarize derives the report statistics from hourly buckets.
func Summarize(h Hourly, p Params) (Summary, error) {
	availability := p.Range.Hours()
	if availability == 0 {
		return Summary{}, model.NewError(model.KindInvalidRange,
			"start and end dates must differ (availability would be zero hours)", model.ErrZeroLengthRange)
	}

	total := 0.0
	for _, m := range h.Minutes() {
		total += m
	}
	energy := p.Motor.EnergyKWh(total)

	return Summary{
		TotalMinutes:          total,
		AverageMinutesPerHour: total / HoursPerDay,
		AvailabilityHours:     availability,
		UtilizationPercent:    math.Round(total / 60 / availability * 100),
		PowerWatts:            p.Motor.PowerWatts(),
		EnergyKWh:             energy,
		Cost:                  p.Tariff.Cost(energy),
		PricePerKWh:           p.Tariff.PricePerKWh,
	}, nil
}
