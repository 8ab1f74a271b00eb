// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/api/handlers"
	"github.com/andresuchdata/vaxstock/backend-go/internal/api/middleware"
	"github.com/andresuchdata/vaxstock/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	AuthService      *service.AuthService
	DashboardService *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")

	if services != nil {
		if services.AuthService != nil {
			authHandler := handlers.NewAuthHandler(services.AuthService)
			apiGroup.POST("/login", authHandler.Login)
		}

		if services.DashboardService != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
			apiGroup.GET("/data", dashboardHandler.GetData)
			apiGroup.POST("/inventory", dashboardHandler.PostInventory)
			apiGroup.GET("/inventory/:location_id", dashboardHandler.GetInventoryHistory)
			apiGroup.POST("/demographics", dashboardHandler.PostDemographics)

			reportHandler := handlers.NewReportHandler(services.DashboardService)
			apiGroup.GET("/report", reportHandler.GetReport)
			apiGroup.GET("/report.csv", reportHandler.GetReportCSV)
			apiGroup.GET("/report.xlsx", reportHandler.GetReportXLSX)
			apiGroup.GET("/report.pdf", reportHandler.GetReportPDF)
			apiGroup.GET("/groups", reportHandler.GetGroups)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			cfg.AllowOrigins = nil
			cfg.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			cfg.AllowOrigins = normalizedOrigins
		}
	}
	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
