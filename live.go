package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/live"
	"github.com/Zachkp/portfolio/internal/sections"
	"github.com/Zachkp/portfolio/internal/shell"
)

// pingInterval keeps idle streams alive through proxies.
var pingInterval = 25 * time.Second

type layoutRequest struct {
	Viewport sections.Viewport `json:"viewport"`
	Regions  []live.Region     `json:"regions"`
}

type copyRequest struct {
	Granted bool `json:"granted"`
}

// liveStream opens a session and streams its views until the client goes
// away or the session is closed.
func (s *server) liveStream(c *gin.Context) {
	sess, err := s.hub.Open()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, live.ErrTooManySessions) || errors.Is(err, live.ErrHubClosed) {
			status = http.StatusServiceUnavailable
		}
		log.Printf("Error opening live session: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	defer s.hub.Close(sess.ID())

	views, cancel := sess.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("session", gin.H{"id": sess.ID()})
	c.Writer.Flush()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case v, ok := <-views:
			if !ok {
				return false
			}
			sess.Touch(time.Now())
			c.SSEvent("view", v)
			return true
		case <-ping.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

func (s *server) liveLayout(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Viewport.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "viewport height must be positive"})
		return
	}
	if err := sess.Place(c.Request.Context(), req.Viewport, req.Regions); err != nil {
		liveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) liveScroll(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var v sections.Viewport
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if v.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "viewport height must be positive"})
		return
	}
	if err := sess.Scroll(c.Request.Context(), v); err != nil {
		liveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) liveMenu(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.ToggleMenu(c.Request.Context()); err != nil {
		liveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) liveNav(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	known, err := sess.Navigate(c.Request.Context(), c.Param("section"))
	if err != nil {
		liveError(c, err)
		return
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown section"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) liveCopy(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := sess.CopyResult(c.Request.Context(), req.Granted)
	switch {
	case errors.Is(err, shell.ErrClipboardDenied), errors.Is(err, shell.ErrNotMounted):
		c.JSON(http.StatusOK, gin.H{"copied": false})
	case err != nil:
		liveError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"copied": true})
	}
}

// session looks up the :id session, answering 404 when it is gone.
func (s *server) session(c *gin.Context) (*live.Session, bool) {
	sess, ok := s.hub.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return nil, false
	}
	return sess, true
}

func liveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clock.ErrLoopClosed):
		c.JSON(http.StatusGone, gin.H{"error": "session closed"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.Status(http.StatusServiceUnavailable)
	default:
		log.Printf("Error handling live request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
