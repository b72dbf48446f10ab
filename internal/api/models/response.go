package models

import (
	"time"

	"usage-report/internal/analysis"
	"usage-report/internal/usage"
)

// ReportResponse represents a generated report
type ReportResponse struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	EntryID   string        `json:"entry_id"`
	CreatedAt time.Time     `json:"created_at"`
	Range     TimeWindow    `json:"range"`
	Hourly    []HourlyRow   `json:"hourly"`
	Summary   usage.Summary `json:"summary"`
	Pairing   usage.Pairing `json:"pairing"`
	Chart     *ChartInfo    `json:"chart,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
	Links     ReportLinks   `json:"links"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HourlyRow is one bar of the chart
type HourlyRow struct {
	Hour    int     `json:"hour"`
	Minutes float64 `json:"minutes"`
}

// ChartInfo carries the text drawn on the chart
type ChartInfo struct {
	Title      string  `json:"title"`
	Average    float64 `json:"average"`
	Annotation string  `json:"annotation"`
}

// ReportLinks points at the rendered documents
type ReportLinks struct {
	Self      string `json:"self"`
	PDF       string `json:"pdf"`
	PNG       string `json:"png"`
	HourlyCSV string `json:"hourly_csv"`
}

// ChannelsResponse represents the ranking of channels in a log
type ChannelsResponse struct {
	Range    TimeWindow              `json:"range"`
	Channels []analysis.ChannelUsage `json:"channels"`
	Warnings []string                `json:"warnings,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
