package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lanternhq/lantern/internal/chat"
	"github.com/lanternhq/lantern/internal/duckdb"
	"github.com/lanternhq/lantern/internal/logview"
	"github.com/lanternhq/lantern/internal/model"
)

// requireProject resolves the :id path segment and aborts with 404 for
// unknown projects.
func (s *Server) requireProject(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.GetProject(id); err != nil {
		if errors.Is(err, duckdb.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		s.logger.Error("project lookup failed", zap.String("project_id", id), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}
	c.Next()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects()
	if err != nil {
		s.logger.Error("list projects failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing name field"})
		return
	}

	project, err := s.store.CreateProject(strings.TrimSpace(req.Name))
	if err != nil {
		s.logger.Error("create project failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

// parseCriteria builds filter criteria from query parameters. Seconds
// and milliseconds must be integers when present.
func parseCriteria(c *gin.Context) (model.FilterCriteria, error) {
	criteria := model.FilterCriteria{
		Level:   c.Query("level"),
		File:    c.Query("file"),
		Keyword: c.Query("keyword"),
		From:    c.Query("from"),
		To:      c.Query("to"),
	}
	if raw := c.Query("seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, fmt.Errorf("seconds must be an integer")
		}
		criteria.Seconds = &n
	}
	if raw := c.Query("milliseconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, fmt.Errorf("milliseconds must be an integer")
		}
		criteria.Milliseconds = &n
	}
	return criteria, nil
}

// loadFiltered loads a project's files and applies the request's
// filter criteria. Responds with an error and returns false on failure.
func (s *Server) loadFiltered(c *gin.Context) (logview.QueryResult, model.FilterCriteria, bool) {
	projectID := c.Param("id")

	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return logview.QueryResult{}, criteria, false
	}

	groups, err := s.store.ProjectLogFiles(projectID)
	if err != nil {
		s.logger.Error("load project files failed", zap.String("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project logs"})
		return logview.QueryResult{}, criteria, false
	}

	return logview.Query(groups, criteria), criteria, true
}

func (s *Server) handleLogs(c *gin.Context) {
	result, _, ok := s.loadFiltered(c)
	if !ok {
		return
	}

	groups := s.view(c.Param("id")).Annotate(result.Groups)
	if groups == nil {
		groups = []model.LogFileGroup{}
	}
	c.JSON(http.StatusOK, gin.H{
		"files":       groups,
		"total_count": result.TotalCount,
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.conf.MaxUploadBytes)

	filename, content, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := s.uploader.UploadText(c.Param("id"), filename, content)
	if err != nil {
		s.logger.Error("upload failed", zap.String("project_id", c.Param("id")),
			zap.String("filename", filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"file_id":      result.FileID,
		"filename":     result.Filename,
		"record_count": result.RecordCount,
	})
}

// readUpload extracts the upload from either a multipart form ("file"
// field, browser path) or a JSON body with filename and content.
func readUpload(c *gin.Context) (filename, content string, ok bool) {
	if c.ContentType() == "multipart/form-data" {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field in multipart form"})
			return "", "", false
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
			return "", "", false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
			return "", "", false
		}
		name := c.PostForm("filename")
		if name == "" {
			name = fh.Filename
		}
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "upload has no filename"})
			return "", "", false
		}
		return name, string(data), true
	}

	var req struct {
		Filename string `json:"filename" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing filename/content"})
		return "", "", false
	}
	return req.Filename, req.Content, true
}

func (s *Server) handleToggleFile(c *gin.Context) {
	var req struct {
		Filename string `json:"filename" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing filename"})
		return
	}

	collapsed := s.view(c.Param("id")).Toggle(req.Filename)
	c.JSON(http.StatusOK, gin.H{
		"filename":  req.Filename,
		"collapsed": collapsed,
	})
}

func (s *Server) handleTimeSeries(c *gin.Context) {
	result, _, ok := s.loadFiltered(c)
	if !ok {
		return
	}

	selected := c.Query("chart_level")
	if selected == "" {
		selected = logview.AllLevels
	}
	buckets := logview.AggregateTimeSeries(logview.Flatten(result.Groups), selected)
	if buckets == nil {
		buckets = []model.TimeBucket{}
	}
	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}

func (s *Server) handleDistribution(c *gin.Context) {
	result, _, ok := s.loadFiltered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"distribution": logview.LevelDistribution(logview.Flatten(result.Groups)),
	})
}

func (s *Server) handleAlerts(c *gin.Context) {
	top := 0
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a non-negative integer"})
			return
		}
		top = n
	}

	alerts, err := s.store.ProjectAlerts(c.Param("id"))
	if err != nil {
		s.logger.Error("load alerts failed", zap.String("project_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load alerts"})
		return
	}

	ranked := logview.RankAlerts(alerts, top)
	if ranked == nil {
		ranked = []model.AlertSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": ranked})
}

func (s *Server) handleExportCSV(c *gin.Context) {
	result, _, ok := s.loadFiltered(c)
	if !ok {
		return
	}

	filename := logview.ExportFilename(c.Param("id"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(logview.ExportCSV(result.Groups)))
}

func (s *Server) handleChat(c *gin.Context) {
	if s.chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is not configured"})
		return
	}

	var req struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	projectID := c.Param("id")
	alerts, err := s.store.ProjectAlerts(projectID)
	if err != nil {
		s.logger.Error("load alerts for chat failed", zap.String("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load alert context"})
		return
	}

	answer, err := s.chat.Respond(c.Request.Context(), alertContext(alerts), req.Messages)
	if err != nil {
		if errors.Is(err, chat.ErrNoMessages) || errors.Is(err, chat.ErrNoUserMessage) || errors.Is(err, chat.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("chat completion failed", zap.String("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "chat completion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// alertContext renders ranked alerts as the retrieval context for chat.
func alertContext(alerts []model.AlertSummary) string {
	ranked := logview.RankAlerts(alerts, 10)
	lines := make([]string, 0, len(ranked))
	for _, a := range ranked {
		lines = append(lines, fmt.Sprintf("%s [%s]: %s (count=%d, window=%gm, latest=%s)",
			a.Name, a.Severity, a.Reason,
			a.Stats.Count, a.Stats.TimeWindowMinutes, a.Stats.LatestTimestamp))
	}
	return strings.Join(lines, "\n")
}
