package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/export"
	"github.com/andresuchdata/vaxstock/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *service.DashboardService
}

func NewReportHandler(service *service.DashboardService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	rep, err := h.service.Report(c.Request.Context(), parsePeriod(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) GetReportCSV(c *gin.Context) {
	h.download(c, export.FormatCSV)
}

func (h *ReportHandler) GetReportXLSX(c *gin.Context) {
	h.download(c, export.FormatXLSX)
}

func (h *ReportHandler) GetReportPDF(c *gin.Context) {
	h.download(c, export.FormatPDF)
}

func (h *ReportHandler) download(c *gin.Context, format export.Format) {
	rep, err := h.service.Report(c.Request.Context(), parsePeriod(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report", "details": err.Error()})
		return
	}

	data, contentType, err := export.Render(rep, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export report", "details": err.Error()})
		return
	}

	name := export.FileName(rep, string(format), time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, data)
}

// GetGroups answers the group directory and the problems found in it.
func (h *ReportHandler) GetGroups(c *gin.Context) {
	warnings, err := h.service.ValidateDirectory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate groups", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups":   h.service.Directory(),
		"warnings": warnings,
	})
}
