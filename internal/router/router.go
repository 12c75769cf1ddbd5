// internal/router/router.go
package router

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"recognicam-go/internal/handlers"
	"recognicam-go/internal/scoring"
	"recognicam-go/internal/services"
	"recognicam-go/internal/session"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

// Setup wires the HTTP API. The ingest endpoints are deliberately left
// unlimited: sensor streams arrive at tens of events per second and the
// analyzers bound their own work.
func Setup(log *zap.Logger, sessions *session.Manager, poller *services.Poller, scorer *scoring.Scorer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	sessionHandler := handlers.NewSessionHandler(log, sessions, poller)
	ingestHandler := handlers.NewIngestHandler(log, sessions)
	metricsHandler := handlers.NewMetricsHandler(log, sessions)
	scoreHandler := handlers.NewScoreHandler(log, sessions, poller, scorer)
	resultsHandler := handlers.NewResultsHandler(log)
	chartsHandler := handlers.NewChartsHandler(log, sessions)

	// Rate limit session creation and the destructive results endpoint;
	// neither is a hot path.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 30,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.POST("/sessions", limiter, sessionHandler.Create)

	sessionRoutes := router.Group("/sessions/:id")
	{
		sessionRoutes.POST("/start", sessionHandler.Start)
		sessionRoutes.POST("/stop", sessionHandler.Stop)
		sessionRoutes.POST("/reset", sessionHandler.Reset)

		sessionRoutes.POST("/motion", ingestHandler.Motion)
		sessionRoutes.POST("/gyro", ingestHandler.Gyro)
		sessionRoutes.POST("/face", ingestHandler.Face)

		sessionRoutes.GET("/metrics", metricsHandler.Current)
		sessionRoutes.GET("/metrics/final", metricsHandler.Final)
		sessionRoutes.GET("/metrics/history", metricsHandler.History)
		sessionRoutes.GET("/chart", chartsHandler.SessionChart)

		sessionRoutes.POST("/score", scoreHandler.Score)
	}

	router.GET("/results/latest", resultsHandler.Latest)
	router.GET("/results/recent", resultsHandler.Recent)
	router.GET("/results/:id/chart", chartsHandler.ResultChart)
	router.DELETE("/results", limiter, resultsHandler.ClearAll)

	return router
}
