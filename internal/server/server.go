package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"relaychat/api/internal/config"
	"relaychat/api/internal/handlers"
	"relaychat/api/internal/middleware"
)

type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
	cfg    *config.AppConfig
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, handlerSet handlers.HandlerSet) *HTTPServer {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gate := middleware.NewGate(
		handlerSet.Synchronizer(),
		handlerSet.Resolver(),
		handlerSet.DailyCounter(),
		cfg.Security.SessionSecret,
		cfg.IsProduction(),
		log,
	)

	engine := gin.New()
	engine.RedirectTrailingSlash = true

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.AllowCORSOrigins),
		gate.Handler(),
	)

	handlerSet.Register(engine.Group("/api"))
	registerPages(engine)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &HTTPServer{
		engine: engine,
		server: srv,
		log:    log,
		cfg:    cfg,
	}
}

// registerPages mounts minimal placeholders for the page routes the gate
// reasons about. The real UI is served elsewhere; these exist so the
// already-authenticated redirect has concrete targets.
func registerPages(engine *gin.Engine) {
	page := func(title string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Header("Content-Type", "text/html; charset=utf-8")
			c.String(http.StatusOK, "<!doctype html><title>%s</title>", title)
		}
	}
	engine.GET("/", page("RelayChat"))
	engine.GET("/login", page("Sign In"))
	engine.GET("/register", page("Register"))
}

func (s *HTTPServer) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Msg("http server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
