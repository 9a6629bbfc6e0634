package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edupath/internal/repository"
)

// DirectoryHandler sirve el directorio de colleges, career paths y el calendario.
type DirectoryHandler struct {
	logger   *zap.Logger
	colleges repository.CollegeRepository
	careers  repository.CareerPathRepository
	timeline repository.TimelineRepository
	now      func() time.Time
}

func NewDirectoryHandler(
	logger *zap.Logger,
	colleges repository.CollegeRepository,
	careers repository.CareerPathRepository,
	timeline repository.TimelineRepository,
) *DirectoryHandler {
	return &DirectoryHandler{
		logger:   logger,
		colleges: colleges,
		careers:  careers,
		timeline: timeline,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Colleges maneja GET /api/colleges y GET /api/colleges/search.
func (h *DirectoryHandler) Colleges(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	filter := repository.CollegeFilter{
		State:  strings.TrimSpace(c.Query("state")),
		City:   strings.TrimSpace(c.Query("city")),
		Type:   strings.TrimSpace(c.Query("type")),
		Course: strings.TrimSpace(c.Query("course")),
		Query:  strings.TrimSpace(c.Query("q")),
		Limit:  limit,
		Offset: offset,
	}
	colleges, err := h.colleges.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err, "could not list colleges")
		return
	}
	c.JSON(http.StatusOK, gin.H{"colleges": colleges, "count": len(colleges)})
}

func (h *DirectoryHandler) College(c *gin.Context) {
	college, err := h.colleges.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, "could not load college")
		return
	}
	c.JSON(http.StatusOK, college)
}

// CareerPaths maneja GET /api/career-paths?stream=&degree=.
func (h *DirectoryHandler) CareerPaths(c *gin.Context) {
	paths, err := h.careers.List(c.Request.Context(), c.Query("stream"), c.Query("degree"))
	if err != nil {
		writeError(c, h.logger, err, "could not list career paths")
		return
	}
	c.JSON(http.StatusOK, gin.H{"career_paths": paths})
}

func (h *DirectoryHandler) CareerPath(c *gin.Context) {
	path, err := h.careers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, "could not load career path")
		return
	}
	c.JSON(http.StatusOK, path)
}

// Events maneja GET /api/timeline/events?category=.
func (h *DirectoryHandler) Events(c *gin.Context) {
	events, err := h.timeline.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, h.logger, err, "could not list events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *DirectoryHandler) Upcoming(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 5)
	if !ok {
		return
	}
	events, err := h.timeline.Upcoming(c.Request.Context(), h.now(), limit)
	if err != nil {
		writeError(c, h.logger, err, "could not list events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
