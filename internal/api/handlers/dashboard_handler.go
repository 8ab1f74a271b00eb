package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 20

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func parsePeriod(c *gin.Context) domain.Period {
	return domain.Period{
		From: strings.TrimSpace(c.Query("from")),
		To:   strings.TrimSpace(c.Query("to")),
	}
}

// GetData answers the dashboard snapshot: demographics, locations and
// per-location counter sums.
func (h *DashboardHandler) GetData(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), parsePeriod(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dashboard data", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (h *DashboardHandler) PostInventory(c *gin.Context) {
	var entry domain.InventoryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inventory entry", "details": err.Error()})
		return
	}

	saved, err := h.service.SubmitInventory(c.Request.Context(), entry)
	switch {
	case errors.Is(err, service.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inventory entry", "details": err.Error()})
		return
	case errors.Is(err, service.ErrUnknownLocation):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown location", "details": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save inventory entry", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *DashboardHandler) GetInventoryHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := h.service.History(c.Request.Context(), domain.FacilityID(c.Param("location_id")), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch inventory history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *DashboardHandler) PostDemographics(c *gin.Context) {
	var demo domain.Demographics
	if err := c.ShouldBindJSON(&demo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid demographics", "details": err.Error()})
		return
	}

	saved, err := h.service.SaveDemographics(c.Request.Context(), demo)
	if errors.Is(err, service.ErrInvalidEntry) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid demographics", "details": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save demographics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, saved)
}
