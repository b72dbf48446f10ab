package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usage-report/internal/api/models"
	"usage-report/internal/model"
	"usage-report/internal/report"
)

// ChannelsHandler ranks the channels found in an uploaded log
type ChannelsHandler struct {
	svc           *report.Service
	includeEndDay bool
}

// NewChannelsHandler creates a new channels handler
func NewChannelsHandler(svc *report.Service, includeEndDay bool) *ChannelsHandler {
	return &ChannelsHandler{svc: svc, includeEndDay: includeEndDay}
}

// RankChannels handles POST /api/v1/channels
func (h *ChannelsHandler) RankChannels(c *gin.Context) {
	var req models.ChannelsRequest
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

	ranked, warnings, err := h.svc.Channels(c.Request.Context(), f, rng)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ChannelsResponse{
		Range:    models.TimeWindow{Start: rng.Start, End: rng.End},
		Channels: ranked,
		Warnings: warnings,
	})
}
