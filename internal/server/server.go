// Package server wires the quiz HTTP API onto gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"persona-quiz/internal/admin"
	"persona-quiz/internal/answers"
	"persona-quiz/internal/common/config"
	apperrors "persona-quiz/internal/common/errors"
	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/common/observability"
	"persona-quiz/internal/motto"
	"persona-quiz/internal/submissions"
	"persona-quiz/pkg/catalog"
)

// Deps are the services behind the API. Observability may be nil.
type Deps struct {
	Catalog        *catalog.Catalog
	Answers        answers.Store
	Submissions    *submissions.Service
	Mottos         *motto.Service
	Auth           *admin.Authenticator
	Observability  *observability.Observability
	MetricsHandler http.Handler
}

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     logger.Logger
}

func New(cfg *config.Config, deps Deps, log logger.Logger) *Server {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(AccessLog(log))
	if deps.Observability != nil {
		engine.Use(Metrics(deps.Observability))
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		engine.Use(CORS(cfg.Server.CORSOrigins))
	}

	responder := apperrors.NewResponder(log)
	h := NewHandlers(deps, responder, log)

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	engine.GET("/healthz", h.Health)
	engine.GET("/metrics", gin.WrapH(metricsHandler))

	api := engine.Group("/api")
	{
		api.GET("/questions", h.Questions)
		api.GET("/personas", h.Personas)
		api.GET("/personas/:slug", h.Persona)
		api.POST("/score", h.Score)
		api.POST("/motto", h.Motto)

		api.POST("/answers", h.Submit)
		api.GET("/answers", deps.Auth.RequireAnalyticsKey(), h.ListSubmissions)
		api.GET("/answers/count", h.CountSubmissions)

		api.GET("/admin/login", deps.Auth.Probe)
		api.POST("/admin/login", deps.Auth.Login)
		api.POST("/admin/logout", deps.Auth.Logout)
	}

	sessionTTL := config.GetSeconds(cfg.Quiz.AnswerTTL)
	session := api.Group("", Session(sessionTTL, cfg.App.IsProduction()))
	{
		session.GET("/session/answers", h.GetAnswers)
		session.PATCH("/session/answers", h.MergeAnswers)
		session.DELETE("/session/answers", h.ClearAnswers)
		session.PUT("/session/answers/:qid", h.SaveAnswer)
		session.DELETE("/session/answers/:qid", h.RemoveAnswer)
		session.GET("/result", h.Result)
		session.POST("/location", h.Location)
	}

	adminGroup := engine.Group("/admin", deps.Auth.RequireAdmin())
	{
		adminGroup.GET("", h.Dashboard)
		adminGroup.GET("/login", h.AdminLoginHint)
	}

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      engine,
			ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server", nil)
	return s.httpServer.Shutdown(ctx)
}
