// Package config loads server settings from config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// AppName names the config and data directories.
const AppName = "portfolio"

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Content  ContentConfig
	Database DatabaseConfig
	Admin    AdminConfig
	Live     LiveConfig
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr      string
	Mode      string
	Templates string
	Static    string
	MaxConns  int `mapstructure:"max_conns"`
}

// ContentConfig points at the portfolio file. Empty means the bundled one.
type ContentConfig struct {
	Path string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path      string
	Retention time.Duration
}

// AdminConfig holds dashboard credentials.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string `mapstructure:"password_hash"`
}

// LiveConfig holds live session settings.
type LiveConfig struct {
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	CopyResetAfter  time.Duration `mapstructure:"copy_reset_after"`
	ScrollThreshold float64       `mapstructure:"scroll_threshold"`
	MaxSessions     int           `mapstructure:"max_sessions"`
}

// DataDir returns the XDG data directory for the app.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir returns the XDG config directory for the app.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load reads configuration from file and env. Env var overrides use prefix
// PORTFOLIO_. PORT, ADMIN_USERNAME and ADMIN_PASSWORD are honored too.
// An empty path searches the XDG config dir and the working directory for
// config.yaml; a missing file is fine.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.templates", "templates")
	v.SetDefault("server.static", "static")
	v.SetDefault("server.max_conns", 512)
	v.SetDefault("content.path", "")
	v.SetDefault("database.path", filepath.Join(DataDir(), "portfolio.db"))
	v.SetDefault("database.retention", 365*24*time.Hour)
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("live.idle_timeout", 2*time.Minute)
	v.SetDefault("live.copy_reset_after", 2500*time.Millisecond)
	v.SetDefault("live.scroll_threshold", 50.0)
	v.SetDefault("live.max_sessions", 1024)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("admin.username", "PORTFOLIO_ADMIN_USERNAME", "ADMIN_USERNAME")
	_ = v.BindEnv("admin.password", "PORTFOLIO_ADMIN_PASSWORD", "ADMIN_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// the zach-dev deployment sets a bare PORT
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PORTFOLIO_SERVER_ADDR") == "" {
		c.Server.Addr = ":" + port
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Server.MaxConns < 0 {
		errs = append(errs, errors.New("server.max_conns must not be negative"))
	}
	if c.Live.IdleTimeout < time.Second {
		errs = append(errs, errors.New("live.idle_timeout must be at least 1s"))
	}
	if c.Live.CopyResetAfter <= 0 {
		errs = append(errs, errors.New("live.copy_reset_after must be positive"))
	}
	if c.Database.Retention <= 0 {
		errs = append(errs, errors.New("database.retention must be positive"))
	}
	if c.Admin.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(c.Admin.PasswordHash)); err != nil {
			errs = append(errs, fmt.Errorf("admin.password_hash: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Credentials resolves the admin login. A plain password is hashed on the
// spot. In debug mode, missing values fall back to the development
// defaults the site has always used, with a warning.
func (a AdminConfig) Credentials(debug bool) (username string, hash []byte, err error) {
	username = a.Username
	if username == "" {
		if !debug {
			return "", nil, ErrAdminDisabled
		}
		username = "admin"
		log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
	}

	switch {
	case a.PasswordHash != "":
		return username, []byte(a.PasswordHash), nil
	case a.Password != "":
		hash, err = bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	case debug:
		log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		hash, err = bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	default:
		return "", nil, ErrAdminDisabled
	}
	if err != nil {
		return "", nil, fmt.Errorf("hash admin password: %w", err)
	}
	return username, hash, nil
}

// ErrAdminDisabled is returned when no admin credentials are configured
// outside debug mode.
var ErrAdminDisabled = errors.New("admin credentials not configured")
