package ui

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"godeviate/domain/kpi"
	"godeviate/internal"
	"godeviate/internal/config"
	"godeviate/internal/ops"
	"godeviate/internal/pipeline"
	"godeviate/internal/session"
	"godeviate/ports"
	"godeviate/ui/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// Server is the upload-and-inspect web UI
type Server struct {
	router    *gin.Engine
	templates *template.Template
	reader    ports.TableReader
	analyzer  *pipeline.Analyzer
	store     *session.Store
	logger    *internal.Logger

	defaultLevel kpi.Level
	threshold    float64
	maxBytes     int64
}

// Options carries the per-deployment settings of the UI
type Options struct {
	DefaultLevel kpi.Level
	Threshold    float64
	MaxBytes     int64
}

// OptionsFromConfig maps loaded configuration onto UI options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DefaultLevel: kpi.Level(cfg.Analysis.Level),
		Threshold:    cfg.Analysis.Threshold,
		MaxBytes:     cfg.Upload.MaxBytes,
	}
}

// NewServer creates the UI with its own gin engine
func NewServer(reader ports.TableReader, analyzer *pipeline.Analyzer, opts Options, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.DefaultLevel == "" {
		opts.DefaultLevel = kpi.LevelCompany
	}
	if opts.Threshold <= 0 {
		opts.Threshold = kpi.DefaultThreshold
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 32 << 20
	}

	funcMap := template.FuncMap{
		"value":      formatValue,
		"labelClass": labelClass,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:       gin.New(),
		templates:    templates,
		reader:       reader,
		analyzer:     analyzer,
		store:        session.NewStore(),
		logger:       logger,
		defaultLevel: opts.DefaultLevel,
		threshold:    opts.Threshold,
		maxBytes:     opts.MaxBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestLogger(s.logger), middleware.Recovery(s.logger))
	s.router.MaxMultipartMemory = s.maxBytes
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/results", s.handleResults)
	s.router.GET("/api/results", s.handleAPIResults)
	s.router.GET("/download.csv", s.handleDownloadCSV)
	s.router.GET("/download.xlsx", s.handleDownloadXLSX)
	s.router.GET("/chart.png", s.handleChart)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	return ops.Serve(ctx, "web UI", addr, s.router, timeout, s.logger)
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written page.
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("[renderTemplate] %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func formatValue(v kpi.Value) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return "-"
}

func labelClass(c kpi.Classification) string {
	return "label-" + strings.ReplaceAll(strings.ToLower(string(c)), " ", "-")
}
