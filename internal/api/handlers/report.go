package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"usage-report/internal/api/models"
	"usage-report/internal/model"
	"usage-report/internal/report"
	"usage-report/internal/storage"
	"usage-report/internal/usage"
)

// PDFFilename is the attachment name of downloaded charts.
const PDFFilename = "grafico.pdf"

// ReportHandler handles report-related requests
type ReportHandler struct {
	svc           *report.Service
	includeEndDay bool
}

// NewReportHandler creates a new report handler.
// includeEndDay is used when a request does not set incluir_dia_final.
func NewReportHandler(svc *report.Service, includeEndDay bool) *ReportHandler {
	return &ReportHandler{svc: svc, includeEndDay: includeEndDay}
}

// CreateReport handles POST /api/v1/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req models.ReportRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindError(c, err)
		return
	}

	includeEndDay := h.includeEndDay
	if req.IncludeEndDay != nil {
		includeEndDay = *req.IncludeEndDay
	}
	rng, err := model.ParseTimeRange(req.StartDate, req.EndDate, includeEndDay)
	if err != nil {
		writeError(c, err)
		return
	}

	f, err := req.CSVFile.Open()
	if err != nil {
		writeError(c, model.NewError(model.KindIO, "failed to read uploaded CSV file", err))
		return
	}
	defer f.Close()

	res, err := h.svc.Generate(c.Request.Context(), report.Request{
		CSV:     f,
		EntryID: req.EntryID,
		Range:   rng,
		Motor:   model.Motor{PowerCV: *req.PowerCV},
		Tariff:  model.Tariff{PricePerKWh: *req.PricePerKWh},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := buildReportResponse(res.Artifact)
	resp.Chart = &models.ChartInfo{
		Title:      res.Chart.Title,
		Average:    res.Chart.Average,
		Annotation: res.Chart.Annotation,
	}
	c.Header("Location", resp.Links.Self)
	c.JSON(http.StatusCreated, resp)
}

// GetReport handles GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	a, err := h.svc.Artifact(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := buildReportResponse(a)
	resp.Chart = &models.ChartInfo{
		Average:    a.Summary.AverageMinutesPerHour,
		Annotation: usage.Annotation(a.Summary),
	}
	c.JSON(http.StatusOK, resp)
}

// GetReportPDF handles GET /api/v1/reports/:id/pdf
func (h *ReportHandler) GetReportPDF(c *gin.Context) {
	a, err := h.svc.Artifact(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	sendPDF(c, a)
}

// GetReportPNG handles GET /api/v1/reports/:id/png
func (h *ReportHandler) GetReportPNG(c *gin.Context) {
	a, err := h.svc.Artifact(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", a.PNG)
}

// GetReportHourlyCSV handles GET /api/v1/reports/:id/hourly.csv
func (h *ReportHandler) GetReportHourlyCSV(c *gin.Context) {
	a, err := h.svc.Artifact(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := usage.WriteHourlyCSV(&buf, a.Hourly); err != nil {
		writeError(c, model.NewError(model.KindInternal, "failed to write CSV", err))
		return
	}
	c.Header("Content-Disposition", attachment(fmt.Sprintf("entrada_%s_horas.csv", a.EntryID)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// DownloadLatestPDF handles GET /download_pdf, returning the most recent chart
func (h *ReportHandler) DownloadLatestPDF(c *gin.Context) {
	a, err := h.svc.Latest(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	sendPDF(c, a)
}

func sendPDF(c *gin.Context, a *storage.Artifact) {
	c.Header("Content-Disposition", attachment(PDFFilename))
	c.Data(http.StatusOK, "application/pdf", a.PDF)
}
