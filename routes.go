package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/live"
	"github.com/Zachkp/portfolio/internal/resume"
	"github.com/Zachkp/portfolio/internal/store"
)

// server holds what the handlers share.
type server struct {
	portfolio *content.Portfolio
	hub       *live.Hub
	store     *store.Store
	admin     *admin
	salt      string
	retention time.Duration
	router    *gin.Engine
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"label": func(s content.Section) string {
		return s.DisplayLabel()
	},
}

func newRouter(s *server, templates, static string) *gin.Engine {
	r := gin.Default()
	r.SetFuncMap(templateFuncs)
	r.LoadHTMLGlob(filepath.Join(templates, "*"))
	r.Static("/static", static)

	r.Use(s.visitorTracking())

	// Home page route
	r.GET("/", s.index)

	// Section deep links, forgiving of typos
	r.GET("/go/:section", s.goSection)

	r.GET("/resume.md", s.resume)
	r.GET("/healthz", s.healthz)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"p":         s.portfolio,
			"retention": humanDays(s.retention),
		})
	})

	liveGroup := r.Group("/live")
	liveGroup.GET("/stream", s.liveStream)
	liveGroup.POST("/:id/layout", s.liveLayout)
	liveGroup.POST("/:id/scroll", s.liveScroll)
	liveGroup.POST("/:id/menu", s.liveMenu)
	liveGroup.POST("/:id/nav/:section", s.liveNav)
	liveGroup.POST("/:id/copy", s.liveCopy)

	if s.admin != nil {
		s.admin.routes(r)
	}
	return r
}

func (s *server) index(c *gin.Context) {
	first := ""
	if len(s.portfolio.Sections) > 0 {
		first = s.portfolio.Sections[0].ID
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"p":      s.portfolio,
		"active": first,
		"phrase": firstPhrase(s.portfolio),
	})
}

// firstPhrase is shown until the live session starts typing.
func firstPhrase(p *content.Portfolio) string {
	if len(p.Hero.Phrases) == 0 {
		return ""
	}
	return p.Hero.Phrases[0]
}

func (s *server) goSection(c *gin.Context) {
	id := strings.ToLower(c.Param("section"))
	if _, ok := s.portfolio.Section(id); !ok {
		suggested, found := content.SuggestIn(id, s.portfolio.SectionIDs())
		if !found {
			c.Redirect(http.StatusFound, "/")
			return
		}
		id = suggested
	}
	c.Redirect(http.StatusFound, "/#"+id)
}

func (s *server) resume(c *gin.Context) {
	var b strings.Builder
	if err := resume.Write(&b, s.portfolio); err != nil {
		log.Printf("Error rendering resume: %v", err)
		c.String(http.StatusInternalServerError, "failed to render resume")
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(b.String()))
}

func (s *server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.hub.Len()})
}

// untracked lists path prefixes the visitor log ignores.
var untracked = []string{
	"/static/",
	"/admin",
	"/favicon",
	"/privacy",
	"/live/",
	"/healthz",
}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untracked {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		v := store.Visit{
			HashedIP:  store.HashIP(c.ClientIP(), s.salt),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
		}
		go func() {
			if err := s.store.RecordVisit(context.Background(), v); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// humanDays describes the retention period for the privacy page.
func humanDays(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	switch {
	case days == 365:
		return "12 months"
	case days > 365 && days%365 == 0:
		return fmt.Sprintf("%d years", days/365)
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
