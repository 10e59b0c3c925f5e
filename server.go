package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/usage_reports/config"
	"bitbucket.org/mmdatafocus/usage_reports/models"
	"bitbucket.org/mmdatafocus/usage_reports/utils"
	"bitbucket.org/mmdatafocus/usage_reports/workflow"
)

const defaultPort = "8080"

// uploadHandler clears the staging directory and saves the posted files
// (the price workbook plus usage workbooks) into it. Each run reads fresh
// inputs, so stale files from a previous upload must not survive.
func uploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		uploadDir := config.GetUploadDir()

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form: " + err.Error()})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
			return
		}

		if err := clearDir(uploadDir); err != nil {
			config.LogError(logger, "server.go", "uploadHandler", "clear staging directory", uploadDir, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		for _, file := range files {
			name := filepath.Base(file.Filename)
			if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, name)); err != nil {
				config.LogError(logger, "server.go", "uploadHandler", "save uploaded file", name, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Files uploaded successfully"})
	}
}

type processRequest struct {
	RoundTotals *bool `json:"round_totals"`
}

// processHandler runs the reconciliation pipeline synchronously and returns
// download paths for both artifacts.
func processHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req processRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
				return
			}
		}
		roundTotals := config.RoundTotalPrice()
		if req.RoundTotals != nil {
			roundTotals = *req.RoundTotals
		}

		opts := workflow.RunOptions{
			InputDir:     config.GetUploadDir(),
			PriceFile:    config.GetPriceFilePath(),
			SummaryPath:  config.GetSummaryOutputPath(),
			DetailedPath: config.GetDetailedOutputPath(),
			RoundTotals:  roundTotals,
		}
		result, err := workflow.Run(c.Request.Context(), opts)
		if err != nil {
			status := http.StatusInternalServerError
			var confErr *models.ConfigurationError
			var schemaErr *models.SchemaError
			if errors.As(err, &confErr) || errors.As(err, &schemaErr) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":         "Processing completed",
			"summary_output":  "/download/" + filepath.Base(result.SummaryPath),
			"detailed_output": "/download/" + filepath.Base(result.DetailedPath),
			"files_processed": result.FilesProcessed,
			"files_skipped":   result.FilesSkipped,
			"sheets_skipped":  result.SheetsSkipped,
			"rows":            result.Rows,
		})
	}
}

// downloadHandler serves one output artifact as an attachment. Only base
// names inside the output directory are reachable.
func downloadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := filepath.Base(c.Param("filename"))
		path := filepath.Join(config.GetOutputDir(), name)
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("File not found: %s", name)})
			return
		}
		c.FileAttachment(path, name)
	}
}

func clearDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	// Best-effort env bootstrap for local development.
	_ = godotenv.Load()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated). In non-production, allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "x-correlation-id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/upload", uploadHandler())
	r.POST("/process", processHandler())
	r.GET("/download/:filename", downloadHandler())
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"port":       port,
		"upload_dir": config.GetUploadDir(),
		"output_dir": config.GetOutputDir(),
	}).Info("usage reports server started")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"module": "server.go"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"module": "server.go"}).Error("graceful shutdown failed: " + err.Error())
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
