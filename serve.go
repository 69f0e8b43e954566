package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/live"
	"github.com/Zachkp/portfolio/internal/shell"
	"github.com/Zachkp/portfolio/internal/store"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Serves the portfolio page, its live sessions, the Markdown resume and
the admin dashboard.

Settings come from config.yaml and PORTFOLIO_* environment variables; a
.env file in the working directory is loaded first. PORT, ADMIN_USERNAME
and ADMIN_PASSWORD are honored as well.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	p, err := content.Load(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Printf("Analytics database: %s", cfg.Database.Path)

	srv, err := newServer(p, st, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.run(ctx, cfg)
}

// newServer wires the content, analytics, live sessions and admin.
func newServer(p *content.Portfolio, st *store.Store, cfg config.Config) (*server, error) {
	reg, err := p.Registry()
	if err != nil {
		return nil, err
	}
	salt, err := store.NewSalt()
	if err != nil {
		return nil, err
	}

	hub := live.NewHub(live.Options{
		Shell: shell.Options{
			Typewriter:      p.Typewriter(),
			Sections:        reg,
			Email:           p.Profile.Email,
			CopyResetAfter:  cfg.Live.CopyResetAfter,
			ScrollThreshold: cfg.Live.ScrollThreshold,
		},
		Recorder:    st,
		IdleTimeout: cfg.Live.IdleTimeout,
		MaxSessions: cfg.Live.MaxSessions,
	})

	s := &server{
		portfolio: p,
		hub:       hub,
		store:     st,
		salt:      salt,
		retention: cfg.Database.Retention,
	}

	s.admin, err = newAdmin(st, cfg.Admin, gin.Mode() == gin.DebugMode, salt, cfg.Database.Retention)
	switch {
	case errors.Is(err, config.ErrAdminDisabled):
		log.Println("Admin dashboard disabled: set ADMIN_USERNAME and ADMIN_PASSWORD to enable it")
	case err != nil:
		return nil, err
	}

	s.router = newRouter(s, cfg.Server.Templates, cfg.Server.Static)
	return s, nil
}

// run serves until ctx is done, then drains live sessions and shuts the
// HTTP server down.
func (s *server) run(ctx context.Context, cfg config.Config) error {
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	// SSE streams hold their connection open
	if cfg.Server.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConns)
	}

	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Listening on %s", ln.Addr())
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.hub.Run(ctx)
	})
	g.Go(func() error {
		s.cleanupLoop(ctx, 24*time.Hour)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		// closing sessions ends their streams, so Shutdown can finish
		s.hub.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// cleanupLoop removes analytics older than the retention period now and
// then every interval.
func (s *server) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		s.cleanup(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *server) cleanup(ctx context.Context) {
	n, err := s.store.Cleanup(ctx, s.retention)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Error cleaning up old analytics: %v", err)
		}
		return
	}
	if n > 0 {
		log.Printf("Privacy cleanup: Removed %d records older than %s", n, s.retention)
	}
}
