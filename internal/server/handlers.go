package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmagro/blockscan/internal/view"
)

func (s *Server) routes() {
	r := s.engine
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", s.index)
	r.POST("/select", s.selectForm)
	r.POST("/refresh", s.refreshForm)
	r.POST("/transactions/retry", s.retryForm)
	r.GET("/focus", s.focus)

	api := r.Group("/api")
	{
		api.GET("/state", s.apiState)
		api.POST("/select/:hash", s.apiSelect)
		api.POST("/refresh", s.apiRefresh)
		api.POST("/transactions/retry", s.apiRetry)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

func (s *Server) index(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	c.HTML(http.StatusOK, "index.html", newPage(sess.view.Snapshot(), s.opts))
}

func (s *Server) selectForm(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	err := sess.view.Select(c.PostForm("hash"))
	if errors.Is(err, view.ErrInvalidHash) {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) refreshForm(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	_ = sess.view.Refresh()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) retryForm(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	_ = sess.view.RetryTransactions()
	c.Redirect(http.StatusSeeOther, "/")
}

// focus revalidates when the page regains visibility.
func (s *Server) focus(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	_ = sess.view.Refresh()
	c.Status(http.StatusNoContent)
}

type stateResponse struct {
	view.ViewState
	Phase             view.Phase `json:"phase"`
	BlocksError       string     `json:"blocksError,omitempty"`
	TransactionsError string     `json:"transactionsError,omitempty"`
}

func newStateResponse(v view.ViewState) stateResponse {
	resp := stateResponse{ViewState: v, Phase: v.Phase()}
	if v.BlocksErr != nil {
		resp.BlocksError = v.BlocksErr.Error()
	}
	if v.TransactionsErr != nil {
		resp.TransactionsError = v.TransactionsErr.Error()
	}
	return resp
}

func (s *Server) apiState(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, newStateResponse(sess.view.Snapshot()))
}

func (s *Server) apiSelect(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	err := sess.view.Select(c.Param("hash"))
	switch {
	case errors.Is(err, view.ErrInvalidHash):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, view.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, newStateResponse(sess.view.Snapshot()))
	}
}

func (s *Server) apiRefresh(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	if err := sess.view.Refresh(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, newStateResponse(sess.view.Snapshot()))
}

func (s *Server) apiRetry(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	err := sess.view.RetryTransactions()
	switch {
	case errors.Is(err, view.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, newStateResponse(sess.view.Snapshot()))
	}
}
