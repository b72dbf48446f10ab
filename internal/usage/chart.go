package usage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bar is one hour of the chart.
type Bar struct {
	Hour    int     `json:"hour"`
	Minutes float64 `json:"minutes"`
}

// ChartSpec is everything a renderer needs: 24 ordered bars, one average line and a text block.
type ChartSpec struct {
	Title      string           `json:"title"`
	XLabel     string           `json:"x_label"`
	YLabel     string           `json:"y_label"`
	Bars       [HoursPerDay]Bar `json:"bars"`
	Average    float64          `json:"average"`
	Annotation string           `json:"annotation"`
}

const periodLayout = "02/01/2006"

// BuildChart describes the report as a bar chart. Labels are in Portuguese, as shown to operators.
func BuildChart(r *Report) ChartSpec {
	spec := ChartSpec{
		Title: fmt.Sprintf("Tempos de Ativação da Entrada %s por Hora\nPeríodo: %s - %s",
			r.EntryID, r.Range.Start.Format(periodLayout), r.Range.End.Format(periodLayout)),
		XLabel:  "Hora do Dia",
		YLabel:  "Soma dos Tempos (minutos)",
		Average: r.Summary.AverageMinutesPerHour,
	}
	for hour, m := range r.Hourly.Minutes() {
		spec.Bars[hour] = Bar{Hour: hour, Minutes: m}
	}
	spec.Annotation = Annotation(r.Summary)
	return spec
}

// Annotation formats the summary block printed next to the chart.
func Annotation(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Disponibilidade: %d Horas\n", int(s.AvailabilityHours))
	fmt.Fprintf(&b, "Em uso: %d Horas\n", int(math.Floor(s.TotalMinutes/60)))
	fmt.Fprintf(&b, "Rendimento: %d %%\n", int(s.UtilizationPercent))
	fmt.Fprintf(&b, "Média: %.2f min\n", s.AverageMinutesPerHour)
	fmt.Fprintf(&b, "Consumo: %s kWh\n", strconv.FormatFloat(s.EnergyKWh, 'f', -1, 64))
	fmt.Fprintf(&b, "Custo R$: %.2f", s.Cost)
	return b.String()
}
