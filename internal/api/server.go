package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usage-report/internal/api/handlers"
	"usage-report/internal/api/middleware"
	"usage-report/internal/api/models"
	"usage-report/internal/config"
	"usage-report/internal/report"
)

// Server bundles the gin engine with its configuration.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	logger *zap.Logger
}

// NewServer builds the router: middleware, API routes and optional static files.
func NewServer(cfg *config.Config, svc *report.Service, logger *zap.Logger) *Server {
	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	engine.Use(middleware.ErrorHandler(logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.Logger(logger))

	s := &Server{cfg: cfg.Server, engine: engine, logger: logger}
	s.registerRoutes(svc, cfg.Report.IncludeEndDay)
	s.registerStatic()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes(svc *report.Service, includeEndDay bool) {
	reportHandler := handlers.NewReportHandler(svc, includeEndDay)
	channelsHandler := handlers.NewChannelsHandler(svc, includeEndDay)
	limit := limitBody(s.cfg.MaxUploadBytes())

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/download_pdf", reportHandler.DownloadLatestPDF)

	api := s.engine.Group("/api/v1")
	{
		api.POST("/reports", limit, reportHandler.CreateReport)
		api.GET("/reports/:id", reportHandler.GetReport)
		api.GET("/reports/:id/pdf", reportHandler.GetReportPDF)
		api.GET("/reports/:id/png", reportHandler.GetReportPNG)
		api.GET("/reports/:id/hourly.csv", reportHandler.GetReportHourlyCSV)

		api.POST("/channels", limit, channelsHandler.RankChannels)
	}
}

// registerStatic serves a built front-end from StaticDir when it exists.
func (s *Server) registerStatic() {
	staticDir := s.cfg.StaticDir
	if staticDir == "" {
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		s.logger.Info("static directory not found, skipping static file serving", zap.String("dir", staticDir))
		return
	}

	s.engine.Static("/assets", filepath.Join(staticDir, "assets"))
	s.engine.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))

	// Serve index.html for all non-API routes (SPA routing)
	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
			})
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
	s.logger.Info("serving static files", zap.String("dir", staticDir))
}

// Run starts the HTTP server and blocks until ctx is done or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
