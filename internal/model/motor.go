package model

import (
	"errors"
	"math"
)

// WattsPerCV converts metric horsepower (cheval-vapeur) to watts.
const WattsPerCV = 735.5

// Motor describes the load driven by a monitored channel.
// Units:
// - PowerCV: metric horsepower
type Motor struct {
	PowerCV float64 `json:"power_cv" yaml:"power_cv"`
}

func (m Motor) Validate() error {
	if m.PowerCV < 0 || math.IsNaN(m.PowerCV) || math.IsInf(m.PowerCV, 0) {
		return errors.New("PowerCV must be a finite value >= 0")
	}
	return nil
}

func (m Motor) PowerWatts() float64 {
	return m.PowerCV * WattsPerCV
}

// EnergyKWh is the energy drawn over activeMinutes, rounded to two decimals.
func (m Motor) EnergyKWh(activeMinutes float64) float64 {
	return round2(m.PowerWatts() * activeMinutes / 60 / 1000)
}

// Tariff is the price of energy, in currency units per kWh.
type Tariff struct {
	PricePerKWh float64 `json:"price_per_kwh" yaml:"price_per_kwh"`
}

func (t Tariff) Validate() error {
	if t.PricePerKWh < 0 || math.IsNaN(t.PricePerKWh) || math.IsInf(t.PricePerKWh, 0) {
		return errors.New("PricePerKWh must be a finite value >= 0")
	}
	return nil
}

func (t Tariff) Cost(energyKWh float64) float64 {
	return energyKWh * t.PricePerKWh
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
