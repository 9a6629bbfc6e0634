package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edupath/internal/domain"
	"edupath/internal/service"
)

// AssessmentHandler expone el banco de preguntas y la evaluacion.
type AssessmentHandler struct {
	logger     *zap.Logger
	assessment *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, assessment *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, assessment: assessment}
}

// Questions maneja GET /api/assessment/questions.
func (h *AssessmentHandler) Questions(c *gin.Context) {
	bank, err := h.assessment.Questions(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, h.logger, err, "could not load questions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": bank})
}

// SubmitAnswer maneja POST /api/assessment/answers.
func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		QuestionID string             `json:"question_id" binding:"required"`
		Value      domain.AnswerValue `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.assessment.SubmitAnswer(c.Request.Context(), userID, req.QuestionID, req.Value); err != nil {
		writeError(c, h.logger, err, "could not save answer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_id": req.QuestionID, "value": req.Value})
}

// Results maneja GET /api/assessment/results: evalua lo guardado y persiste.
func (h *AssessmentHandler) Results(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rec, err := h.assessment.ResultsForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err, "could not evaluate assessment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation_id": rec.ID, "result": rec.Result})
}

// Reset maneja DELETE /api/assessment/answers.
func (h *AssessmentHandler) Reset(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.assessment.Reset(c.Request.Context(), userID); err != nil {
		writeError(c, h.logger, err, "could not reset assessment")
		return
	}
	c.Status(http.StatusNoContent)
}

// Evaluate maneja POST /api/assessment/evaluate sin persistir.
func (h *AssessmentHandler) Evaluate(c *gin.Context) {
	var req struct {
		Answers domain.AnswerSet `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid evaluate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.assessment.Evaluate(c.Request.Context(), req.Answers)
	if err != nil {
		writeError(c, h.logger, err, "could not evaluate assessment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
