package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edupath/internal/service"
)

// AdvisoryHandler expone el advisor LLM (503 si no hay modelo configurado).
type AdvisoryHandler struct {
	logger   *zap.Logger
	advisory *service.AdvisoryService
}

func NewAdvisoryHandler(logger *zap.Logger, advisory *service.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{logger: logger, advisory: advisory}
}

// Analyze maneja POST /api/career-paths/analyze.
func (h *AdvisoryHandler) Analyze(c *gin.Context) {
	var req struct {
		Degree string `json:"degree" binding:"required"`
		Stream string `json:"stream"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	analysis, err := h.advisory.AnalyzeCareerPath(c.Request.Context(), req.Degree, req.Stream)
	if err != nil {
		writeError(c, h.logger, err, "could not analyze career path")
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Dashboard maneja GET /api/dashboard.
func (h *AdvisoryHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	dash, err := h.advisory.PersonalizedAdvice(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err, "could not build dashboard")
		return
	}
	c.JSON(http.StatusOK, dash)
}
