package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"usage-report/internal/api/models"
	"usage-report/internal/model"
	"usage-report/internal/storage"
)

const reportsPath = "/api/v1/reports"

// statusFor maps an error kind to the HTTP status returned to the client.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidInput, model.KindInvalidRange, model.KindIO:
		return http.StatusBadRequest
	case model.KindNoData:
		return http.StatusUnprocessableEntity
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := model.KindOf(err)
	msg := model.MessageOf(err)
	if kind == model.KindInternal {
		msg = "An unexpected error occurred"
	}
	c.JSON(statusFor(kind), models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    string(kind),
			Message: msg,
		},
	})
}

func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UPLOAD_TOO_LARGE",
				Message: fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit),
			},
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

func buildReportResponse(a *storage.Artifact) models.ReportResponse {
	hourly := make([]models.HourlyRow, len(a.Hourly))
	for hour, d := range a.Hourly {
		hourly[hour] = models.HourlyRow{Hour: hour, Minutes: d.Minutes()}
	}
	self := fmt.Sprintf("%s/%s", reportsPath, a.ID)
	return models.ReportResponse{
		ID:        a.ID,
		Status:    "completed",
		EntryID:   a.EntryID,
		CreatedAt: a.CreatedAt,
		Range:     models.TimeWindow{Start: a.Range.Start, End: a.Range.End},
		Hourly:    hourly,
		Summary:   a.Summary,
		Pairing:   a.Pairing,
		Warnings:  a.Warnings,
		Links: models.ReportLinks{
			Self:      self,
			PDF:       self + "/pdf",
			PNG:       self + "/png",
			HourlyCSV: self + "/hourly.csv",
		},
	}
}

// attachment formats a Content-Disposition value. Quotes and non-ASCII bytes in
// filename are escaped or encoded so the parameter stays intact.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
