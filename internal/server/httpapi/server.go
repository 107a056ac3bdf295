// Package httpapi exposes the todo API over HTTP using gin: user signup,
// login and logout, and per-user todo CRUD behind the authentication gate.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPServer struct {
	address         string
	tokenHeader     string
	shutdownTimeout time.Duration
	engine          *gin.Engine
	users           *services.UserService
	gate            *services.Gate
	todos           *services.TodoService
	logger          logging.Logger
}

// NewHTTPServer builds the gin engine and registers all routes. The gin mode
// is process-wide and is expected to be set by the caller.
func NewHTTPServer(cfg *config.Config, l logging.Logger, us *services.UserService, gate *services.Gate, ts *services.TodoService) *HTTPServer {
	s := &HTTPServer{
		address:         cfg.EndpointAddrHTTP,
		tokenHeader:     cfg.TokenHeader,
		shutdownTimeout: cfg.ShutdownTimeout,
		users:           us,
		gate:            gate,
		todos:           ts,
		logger:          l.With("module", "http_server"),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	if c, ok := corsConfig(cfg.CORSAllowedOrigins, cfg.TokenHeader); ok {
		engine.Use(cors.New(c))
	}
	s.engine = engine
	s.setupRoutes()

	return s
}

// Handler returns the engine for use with httptest or a custom listener.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) setupRoutes() {
	r := s.engine

	r.GET("/", s.root)
	r.GET("/health", s.health)

	r.POST("/users", s.signup)
	r.POST("/users/login", s.login)

	authed := r.Group("")
	authed.Use(s.requireAuthentication())
	{
		authed.DELETE("/users/login", s.logout)
		authed.DELETE("/users/sessions", s.logoutAll)

		authed.GET("/todos", s.listTodos)
		authed.GET("/todos/:id", s.getTodo)
		authed.POST("/todos", s.createTodo)
		authed.PUT("/todos/:id", s.updateTodo)
		authed.DELETE("/todos/:id", s.deleteTodo)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsConfig(origins []string, tokenHeader string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}

	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", tokenHeader}
	c.ExposeHeaders = []string{tokenHeader}
	c.MaxAge = 12 * time.Hour

	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}
