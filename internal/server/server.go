// Package server exposes the tutor over a JSON HTTP API for the web client.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/sensei/internal/identity"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/vocab"
)

// Deps are the collaborators the API serves. Sessions and Issuer are
// required. A nil Lessons disables day lesson generation.
type Deps struct {
	Sessions    *session.Registry
	Issuer      *identity.Issuer
	Enricher    vocab.Enricher
	Lessons     *lessons.Service
	Catalog     *lessons.Catalog
	ParentPIN   string
	CORSOrigins []string
	Log         *logger.Logger
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	log    *logger.Logger
	engine *gin.Engine
	now    func() time.Time
}

// New builds the router.
func New(d Deps) (*Server, error) {
	if d.Sessions == nil || d.Issuer == nil {
		return nil, fmt.Errorf("server: sessions and issuer are required")
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Enricher == nil {
		d.Enricher = vocab.Nop{}
	}
	if d.Catalog == nil {
		c, err := lessons.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		d.Catalog = c
	}

	s := &Server{deps: d, log: d.Log.With("component", "http"), now: time.Now}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(cors.New(corsConfig(s.deps.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	api.POST("/identity", s.issueIdentity)
	api.GET("/content/:kind", s.content)
	api.GET("/curriculum", s.curriculum)
	api.GET("/curriculum/:day", s.curriculumDay)

	protected := api.Group("/")
	protected.Use(s.requireAuth())
	{
		protected.GET("/progress", s.getProgress)
		protected.POST("/progress/reset", s.resetProgress)
		protected.GET("/session", s.getSession)
		protected.POST("/modes/:mode", s.openMode)
		protected.POST("/review", s.answerReview)
		protected.POST("/kana", s.answerKana)
		protected.POST("/chat", s.chat)
		protected.POST("/home", s.home)
		protected.POST("/vocab", s.enrich)
		protected.POST("/lessons/day/:day", s.dayLesson)
		protected.GET("/export", s.export)
	}
	return r
}

// corsConfig allows the listed origins. Without any, every origin is
// allowed and credentials are not.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
