package models

import "mime/multipart"

// ReportRequest is the multipart form submitted to generate a report.
// Field names follow the operator form.
type ReportRequest struct {
	CSVFile       *multipart.FileHeader `form:"csv_file" binding:"required"`
	EntryID       string                `form:"numero_entrada" binding:"required"`
	StartDate     string                `form:"data_inicial" binding:"required"` // YYYY-MM-DD
	EndDate       string                `form:"data_final" binding:"required"`   // YYYY-MM-DD
	PowerCV       *float64              `form:"potencia_cv" binding:"required,gte=0"`
	PricePerKWh   *float64              `form:"custo_por_kwh" binding:"required,gte=0"`
	IncludeEndDay *bool                 `form:"incluir_dia_final"` // default: server config
}

// ChannelsRequest ranks every channel of an uploaded log.
type ChannelsRequest struct {
	CSVFile       *multipart.FileHeader `form:"csv_file" binding:"required"`
	StartDate     string                `form:"data_inicial" binding:"required"`
	EndDate       string                `form:"data_final" binding:"required"`
	IncludeEndDay *bool                 `form:"incluir_dia_final"`
}
