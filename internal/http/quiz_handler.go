package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edupath/internal/domain"
	"edupath/internal/service"
)

// QuizHandler maneja sesiones de quiz paso a paso.
type QuizHandler struct {
	logger  *zap.Logger
	quizzes *service.QuizSessionService
}

func NewQuizHandler(logger *zap.Logger, quizzes *service.QuizSessionService) *QuizHandler {
	return &QuizHandler{logger: logger, quizzes: quizzes}
}

// callerID devuelve el usuario del token opcional, vacio si la request es anonima.
func callerID(c *gin.Context) string {
	if claims, ok := GetAuthClaims(c); ok {
		return claims.UserID
	}
	return ""
}

// Start maneja POST /api/quiz/sessions. Con token la sesion queda asociada al usuario.
func (h *QuizHandler) Start(c *gin.Context) {
	view, err := h.quizzes.Start(c.Request.Context(), callerID(c))
	if err != nil {
		writeError(c, h.logger, err, "could not start quiz")
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *QuizHandler) Get(c *gin.Context) {
	view, err := h.quizzes.Get(c.Request.Context(), c.Param("id"), callerID(c))
	h.respond(c, view, err)
}

func (h *QuizHandler) Answer(c *gin.Context) {
	var req struct {
		QuestionID string             `json:"question_id" binding:"required"`
		Value      domain.AnswerValue `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid quiz answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.quizzes.Answer(c.Request.Context(), c.Param("id"), callerID(c), req.QuestionID, req.Value)
	h.respond(c, view, err)
}

func (h *QuizHandler) Next(c *gin.Context) {
	view, err := h.quizzes.Next(c.Request.Context(), c.Param("id"), callerID(c))
	h.respond(c, view, err)
}

func (h *QuizHandler) Previous(c *gin.Context) {
	view, err := h.quizzes.Previous(c.Request.Context(), c.Param("id"), callerID(c))
	h.respond(c, view, err)
}

func (h *QuizHandler) Reset(c *gin.Context) {
	view, err := h.quizzes.Reset(c.Request.Context(), c.Param("id"), callerID(c))
	h.respond(c, view, err)
}

func (h *QuizHandler) respond(c *gin.Context, view service.QuizView, err error) {
	if err != nil {
		writeError(c, h.logger, err, "quiz step failed")
		return
	}
	c.JSON(http.StatusOK, view)
}
