package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edupath/internal/service"
)

// RecommendationHandler lista resultados guardados y perfiles similares.
type RecommendationHandler struct {
	logger     *zap.Logger
	assessment *service.AssessmentService
}

func NewRecommendationHandler(logger *zap.Logger, assessment *service.AssessmentService) *RecommendationHandler {
	return &RecommendationHandler{logger: logger, assessment: assessment}
}

// History maneja GET /api/recommendations.
func (h *RecommendationHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}
	recs, err := h.assessment.History(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, h.logger, err, "could not list recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// Similar maneja GET /api/recommendations/similar.
func (h *RecommendationHandler) Similar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 5)
	if !ok {
		return
	}
	recs, err := h.assessment.Similar(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, h.logger, err, "could not find similar profiles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
