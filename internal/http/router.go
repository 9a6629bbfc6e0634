package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"edupath/internal/service"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Users           *UserHandler
	Assessment      *AssessmentHandler
	Quiz            *QuizHandler
	Directory       *DirectoryHandler
	Advisory        *AdvisoryHandler
	Recommendations *RecommendationHandler
}

// NewRouter configura el router de Gin con middlewares y rutas /api.
// metrics puede ser nil; en ese caso no se expone /metrics.
func NewRouter(logger *zap.Logger, jwtSvc *service.JWTService, metrics prometheus.Gatherer, h Handlers) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	auth := JWTAuthMiddleware(jwtSvc)

	api.POST("/users", h.Users.CreateUser)
	api.GET("/users/me", auth, h.Users.Me)
	api.POST("/auth/login", h.Users.Login)
	api.POST("/auth/refresh", h.Users.RefreshToken)
	api.POST("/auth/logout", h.Users.Logout)

	assessment := api.Group("/assessment")
	assessment.GET("/questions", h.Assessment.Questions)
	assessment.POST("/evaluate", h.Assessment.Evaluate)
	assessment.POST("/answers", auth, h.Assessment.SubmitAnswer)
	assessment.DELETE("/answers", auth, h.Assessment.Reset)
	assessment.GET("/results", auth, h.Assessment.Results)

	quiz := api.Group("/quiz/sessions", OptionalJWTMiddleware(jwtSvc))
	quiz.POST("", h.Quiz.Start)
	quiz.GET("/:id", h.Quiz.Get)
	quiz.POST("/:id/answer", h.Quiz.Answer)
	quiz.POST("/:id/next", h.Quiz.Next)
	quiz.POST("/:id/previous", h.Quiz.Previous)
	quiz.POST("/:id/reset", h.Quiz.Reset)

	recs := api.Group("/recommendations", auth)
	recs.GET("", h.Recommendations.History)
	recs.GET("/similar", h.Recommendations.Similar)

	api.GET("/colleges", h.Directory.Colleges)
	api.GET("/colleges/search", h.Directory.Colleges)
	api.GET("/colleges/:id", h.Directory.College)
	api.GET("/career-paths", h.Directory.CareerPaths)
	api.GET("/career-paths/:id", h.Directory.CareerPath)
	api.POST("/career-paths/analyze", h.Advisory.Analyze)
	api.GET("/timeline/events", h.Directory.Events)
	api.GET("/timeline/upcoming", h.Directory.Upcoming)

	api.GET("/dashboard", auth, h.Advisory.Dashboard)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
