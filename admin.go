// admin.go - privacy-conscious admin dashboard
package main

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/markdown"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/store"
)

const adminCookie = "admin_token"

// admin serves the dashboard. The session token is regenerated on every
// start, so a restart logs everyone out.
type admin struct {
	store     *store.Store
	username  string
	hash      []byte
	token     string
	salt      string
	retention time.Duration
}

func newAdmin(st *store.Store, cfg config.AdminConfig, debug bool, salt string, retention time.Duration) (*admin, error) {
	username, hash, err := cfg.Credentials(debug)
	if err != nil {
		return nil, err
	}
	token, err := store.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generate admin token: %w", err)
	}

	log.Printf("Admin access available at: /admin/login")
	if debug {
		log.Printf("Admin token (dev only): %s", token)
	}
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")

	return &admin{
		store:     st,
		username:  username,
		hash:      hash,
		token:     token,
		salt:      salt,
		retention: retention,
	}, nil
}

// checkLogin compares the username in constant time before paying for
// bcrypt.
func (a *admin) checkLogin(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	return userOK && passErr == nil
}

func (a *admin) hashIP(c *gin.Context) string {
	return store.HashIP(c.ClientIP(), a.salt)
}

// Middleware to check admin authentication
func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Setup all admin routes
func (a *admin) routes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !a.checkLogin(c.PostForm("username"), c.PostForm("password")) {
			log.Printf("Failed admin login attempt from %s", a.hashIP(c))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		secure := c.Request.TLS != nil
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", secure, true)
		log.Printf("Admin login successful from %s", a.hashIP(c))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", a.hashIP(c))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	g := r.Group("/admin")
	g.Use(a.authMiddleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Dashboard",
			"stats": stats,
		})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/visitors", func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "200"))
		if err != nil || limit <= 0 || limit > 1000 {
			limit = 200
		}
		visitors, err := a.store.RecentVisitors(c.Request.Context(), limit)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"title":    "Visitors",
			"visitors": visitors,
		})
	})

	// Privacy compliance endpoint: drops everything past the retention period
	g.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		n, err := a.store.Cleanup(c.Request.Context(), a.retention)
		if err != nil {
			log.Printf("Error cleaning up old analytics: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		log.Printf("Privacy cleanup by %s: Removed %d records", a.hashIP(c), n)
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	// Admin statistics export (for backups or analysis)
	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Admin stats exported by %s", a.hashIP(c))

		if c.Query("format") == "md" {
			var b bytes.Buffer
			if err := writeStatsMarkdown(&b, stats, time.Now()); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.Header("Content-Disposition", "attachment; filename=admin-stats.md")
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", b.Bytes())
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}

// writeStatsMarkdown renders a stats report for offline reading.
func writeStatsMarkdown(b *bytes.Buffer, stats *store.Stats, at time.Time) error {
	md := markdown.NewMarkdown(b)
	md.H1("Site Statistics")
	md.PlainText("")
	md.PlainTextf("Generated %s", at.UTC().Format(time.RFC3339))
	md.PlainText("")

	md.H2("Visitors")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total visits", strconv.FormatInt(stats.TotalVisitors, 10)},
			{"Unique visitors", strconv.FormatInt(stats.UniqueVisitors, 10)},
			{"Today", strconv.FormatInt(stats.VisitorsToday, 10)},
			{"This week", strconv.FormatInt(stats.VisitorsThisWeek, 10)},
		},
	})
	md.PlainText("")

	md.H2("Engagement")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Live sessions", strconv.FormatInt(stats.LiveSessions, 10)},
			{"Section views", strconv.FormatInt(stats.SectionViews, 10)},
			{"Email copies", strconv.FormatInt(stats.CopiesGranted, 10)},
			{"Copies denied", strconv.FormatInt(stats.CopiesDenied, 10)},
		},
	})
	md.PlainText("")

	if len(stats.TopSections) > 0 {
		md.H2("Top Sections")
		md.PlainText("")
		rows := make([][]string, 0, len(stats.TopSections))
		for _, s := range stats.TopSections {
			rows = append(rows, []string{s.Section, strconv.FormatInt(s.Views, 10)})
		}
		md.Table(markdown.TableSet{Header: []string{"Section", "Views"}, Rows: rows})
		md.PlainText("")
	}
	return md.Build()
}
