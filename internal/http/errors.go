package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edupath/internal/recommend"
	"edupath/internal/repository"
	"edupath/internal/service"
)

// writeError traduce errores de servicio y motor a {"error": ...} con su status.
func writeError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var (
		dce        *recommend.DataConsistencyError
		incomplete *recommend.IncompleteError
	)
	switch {
	case errors.As(err, &dce):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": dce.Error(), "question_id": dce.QuestionID})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "assessment incomplete", "missing": incomplete.Missing})
	case errors.Is(err, recommend.ErrUnanswered),
		errors.Is(err, recommend.ErrAtFirstQuestion),
		errors.Is(err, recommend.ErrQuizCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, recommend.ErrInactiveQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNoRecommendation):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limited"})
	case errors.Is(err, service.ErrAdvisoryDisabled), errors.Is(err, service.ErrAdvisoryDown):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAdvice):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// requireUser devuelve el user id del token o responde 401.
func requireUser(c *gin.Context) (string, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok || claims.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return claims.UserID, true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return n, true
}
