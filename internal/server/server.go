// Package server serves the dashboard over HTTP. Each browser session owns one
// view synchronizer; pages render its snapshot and forms post user events.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/view"
)

const (
	sessionCookie   = "blockscan_session"
	shutdownTimeout = 5 * time.Second

	DefaultMaxSessions = 100
)

type Options struct {
	Addr       string
	SessionTTL time.Duration
	// MaxSessions caps mounted dashboards; new visitors get 503 past it.
	MaxSessions int
	// Provider is shown in the page header.
	Provider string
	View     view.Options
}

type Server struct {
	opts     Options
	sessions *sessionStore
	engine   *gin.Engine
}

// New builds the router. Sessions live at most as long as ctx.
func New(ctx context.Context, fetcher chain.Fetcher, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}

	s := &Server{
		opts:     opts,
		sessions: newSessionStore(ctx, fetcher, opts.View, opts.SessionTTL, opts.MaxSessions),
		engine:   gin.New(),
	}
	s.engine.Use(Logger(), Prometheus(), gin.Recovery())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on Options.Addr until ctx is done, then drains requests and
// unmounts every session.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.opts.Addr).Msg("dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	log.Info().Msg("dashboard stopped")
	return err
}

// Close unmounts every session.
func (s *Server) Close() {
	s.sessions.closeAll()
}

// session returns the caller's live session and re-issues its cookie.
// Without one, only the dashboard page opens a new session: API calls get 401
// and form posts are redirected to the page, so stray requests never mount a
// synchronizer.
func (s *Server) session(c *gin.Context) *session {
	id, _ := c.Cookie(sessionCookie)
	if sess, ok := s.sessions.get(id); ok {
		s.setCookie(c, sess.id)
		return sess
	}

	switch {
	case c.FullPath() == "/":
	case c.Request.Method == http.MethodPost && !strings.HasPrefix(c.FullPath(), "/api/"):
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
		return nil
	default:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no active session; open the dashboard first"})
		return nil
	}

	sess, err := s.sessions.create()
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return nil
	}
	s.setCookie(c, sess.id)
	return sess
}

func (s *Server) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.opts.SessionTTL.Seconds()), "/", "", false, true)
}
