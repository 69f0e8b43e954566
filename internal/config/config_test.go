package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PORTFOLIO_SERVER_ADDR", "")

	c, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "templates", c.Server.Templates)
	require.Equal(t, 512, c.Server.MaxConns)
	require.Equal(t, 2*time.Minute, c.Live.IdleTimeout)
	require.Equal(t, 2500*time.Millisecond, c.Live.CopyResetAfter)
	require.InDelta(t, 50, c.Live.ScrollThreshold, 1e-9)
	require.Equal(t, filepath.Join(DataDir(), "portfolio.db"), c.Database.Path)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PORTFOLIO_LIVE_IDLE_TIMEOUT", "45s")
	t.Setenv("ADMIN_USERNAME", "zach")

	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
  max_conns: 64
content:
  path: ./me.yaml
live:
  copy_reset_after: 3s
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	require.Equal(t, 64, c.Server.MaxConns)
	require.Equal(t, "./me.yaml", c.Content.Path)
	require.Equal(t, 3*time.Second, c.Live.CopyResetAfter)
	require.Equal(t, 45*time.Second, c.Live.IdleTimeout)
	require.Equal(t, "zach", c.Admin.Username)
}

func TestLoadPortEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("PORTFOLIO_SERVER_ADDR", "")

	c, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	require.Equal(t, ":3000", c.Server.Addr)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("PORT", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "live:\n  idle_timeout: -1s\n"))
	require.ErrorContains(t, err, "idle_timeout")

	_, err = Load(writeConfig(t, "live:\n  idle_timeout: 1ns\n"))
	require.ErrorContains(t, err, "idle_timeout")

	_, err = Load(writeConfig(t, "admin:\n  password_hash: plain\n"))
	require.ErrorContains(t, err, "password_hash")
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	t.Run("plain password is hashed", func(t *testing.T) {
		t.Parallel()

		user, hash, err := AdminConfig{Username: "zach", Password: "s3cret"}.Credentials(false)
		require.NoError(t, err)
		require.Equal(t, "zach", user)
		require.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("s3cret")))
	})

	t.Run("hash is used as is", func(t *testing.T) {
		t.Parallel()

		stored, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
		require.NoError(t, err)
		_, hash, err := AdminConfig{Username: "zach", PasswordHash: string(stored)}.Credentials(false)
		require.NoError(t, err)
		require.Equal(t, stored, hash)
	})

	t.Run("debug mode falls back to development defaults", func(t *testing.T) {
		t.Parallel()

		user, hash, err := AdminConfig{}.Credentials(true)
		require.NoError(t, err)
		require.Equal(t, "admin", user)
		require.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("admin123")))
	})

	t.Run("release mode without credentials disables admin", func(t *testing.T) {
		t.Parallel()

		_, _, err := AdminConfig{}.Credentials(false)
		require.ErrorIs(t, err, ErrAdminDisabled)
		_, _, err = AdminConfig{Username: "zach"}.Credentials(false)
		require.ErrorIs(t, err, ErrAdminDisabled)
	})
}
