// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/api"
	"github.com/andresuchdata/vaxstock/backend-go/internal/cache"
	"github.com/andresuchdata/vaxstock/backend-go/internal/config"
	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository/sqldb"
	"github.com/andresuchdata/vaxstock/backend-go/internal/service"
	"github.com/andresuchdata/vaxstock/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Log.File != "" {
		logFile := logger.AddFile(logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		defer logFile.Close()
	}

	ctx := context.Background()

	// Initialize database
	db, err := sqldb.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to connect to database")
	}
	defer db.Close()
	repos := db.Repositories()

	// Report cache
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}

	dashboard := service.NewDashboardService(repos, nil, reportCache)

	// Group directory, reloaded when the file changes
	dir, err := report.WatchDirectory(cfg.Report.GroupsFile, func(updated report.Directory) {
		logDirectoryWarnings(ctx, dashboard, updated)
		dashboard.SetDirectory(updated)
	})
	if err != nil {
		logger.Log.Fatal().Err(err).Str("file", cfg.Report.GroupsFile).Msg("Failed to load group directory")
	}
	dashboard.SetDirectory(dir)
	logDirectoryWarnings(ctx, dashboard, dir)
	logger.Log.Info().Int("groups", len(dir)).Str("hash", dir.Hash()).Msg("Group directory loaded")

	// Initialize services
	services := &api.Services{
		AuthService:      service.NewAuthService(repos.Users, repos.Locations),
		DashboardService: dashboard,
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func logDirectoryWarnings(ctx context.Context, dashboard *service.DashboardService, dir report.Directory) {
	snap, err := dashboard.Snapshot(ctx, domain.Period{})
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Could not validate group directory")
		return
	}
	for _, w := range dir.Validate(snap.Locations) {
		logger.Log.Warn().Str("code", string(w.Code)).Str("group", w.Group).Msg(w.Message)
	}
}
