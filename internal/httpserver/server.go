// Package httpserver exposes the project log analytics API over HTTP.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lanternhq/lantern/internal/chat"
	"github.com/lanternhq/lantern/internal/ingest"
	"github.com/lanternhq/lantern/internal/logview"
	"github.com/lanternhq/lantern/internal/model"
)

// Store is the read contract required by the HTTP API.
type Store interface {
	CreateProject(name string) (model.Project, error)
	GetProject(id string) (model.Project, error)
	ListProjects() ([]model.Project, error)
	ProjectLogFiles(projectID string) ([]model.LogFileGroup, error)
	ProjectAlerts(projectID string) ([]model.AlertSummary, error)
	TotalLogCount(projectID string) (int, error)
}

// Uploader accepts raw log text for a project.
type Uploader interface {
	UploadText(projectID, filename, text string) (ingest.UploadResult, error)
}

// Responder answers conversational questions about a project.
type Responder interface {
	Respond(ctx context.Context, contextBlock string, messages []chat.Message) (string, error)
}

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	MaxUploadBytes int64
}

// Server provides the HTTP API for projects, logs, alerts, and chat.
type Server struct {
	conf     Config
	store    Store
	uploader Uploader
	chat     Responder
	logger   *zap.Logger

	// Per-project collapse state for the grouped log view.
	viewMu sync.Mutex
	views  map[string]*logview.GroupView

	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates the API server. The chat responder may be nil, in
// which case the chat endpoint reports that chat is not configured.
func NewServer(conf Config, store Store, uploader Uploader, responder Responder, logger *zap.Logger) *Server {
	if conf.Addr == "" {
		conf.Addr = "0.0.0.0:3000"
	}
	if conf.MaxUploadBytes <= 0 {
		conf.MaxUploadBytes = 16 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		conf:     conf,
		store:    store,
		uploader: uploader,
		chat:     responder,
		logger:   logger,
		views:    make(map[string]*logview.GroupView),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)

	r.GET("/api/projects", s.handleListProjects)
	r.POST("/api/projects", s.handleCreateProject)

	p := r.Group("/api/projects/:id", s.requireProject)
	p.GET("/logs", s.handleLogs)
	p.POST("/logs", s.handleUpload)
	p.POST("/files/toggle", s.handleToggleFile)
	p.GET("/timeseries", s.handleTimeSeries)
	p.GET("/distribution", s.handleDistribution)
	p.GET("/alerts", s.handleAlerts)
	p.GET("/export.csv", s.handleExportCSV)
	p.POST("/chat", s.handleChat)

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.conf.Addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.logger.Info("http api listening", zap.String("addr", s.conf.Addr))

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// view returns the collapse-state tracker for one project.
func (s *Server) view(projectID string) *logview.GroupView {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	v, ok := s.views[projectID]
	if !ok {
		v = logview.NewGroupView()
		s.views[projectID] = v
	}
	return v
}
