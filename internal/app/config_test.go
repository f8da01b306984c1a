package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/uni-task-service/internal/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("server:\n  http-port: \":8080\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HttpPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "memory", cfg.Counter.Type)
	assert.Equal(t, []string{"ID", "MY", "SG"}, cfg.Collaborative.AllowedCountries)
	assert.True(t, cfg.Collaborative.Geo.IsEnabled())
	assert.False(t, cfg.Collaborative.StaleSweep.Enabled)
	assert.Equal(t, 7*24*time.Hour, cfg.GetTokenExpiry())

	svc := cfg.GetServiceConfig()
	assert.Equal(t, int64(30), svc.Collaborative.RateLimit)
	assert.Equal(t, time.Minute, svc.Collaborative.RateWindow)
	assert.Equal(t, 10, svc.Collaborative.DefaultMaxConcurrentUsers)
	assert.Equal(t, 100, svc.Collaborative.DefaultMaxDailyAccess)
	assert.Equal(t, time.Hour, svc.Collaborative.DefaultMaxSessionDuration)
	assert.Equal(t, 10*time.Minute, svc.Collaborative.PresenceWindow)
	assert.Equal(t, 5*time.Minute, svc.Collaborative.ActiveWindow)
	assert.Equal(t, int64(10<<20), svc.App.MaxUploadSize)
	assert.Equal(t, "collaborative", svc.App.UploadPrefix)
}

func TestParseConfig_Overrides(t *testing.T) {
	content := `
app:
  public-base-url: "https://tasks.example.edu/"
  max-upload-size: 2MiB
collaborative:
  rate-limit: 5
  rate-window: 2m
  default-max-daily-access: 7
  allowed-countries: [" id ", "jp"]
  geo:
    enabled: false
`
	cfg, err := ParseConfig([]byte(content))
	require.NoError(t, err)
	assert.False(t, cfg.Collaborative.Geo.IsEnabled())

	svc := cfg.GetServiceConfig()
	assert.Equal(t, int64(5), svc.Collaborative.RateLimit)
	assert.Equal(t, 2*time.Minute, svc.Collaborative.RateWindow)
	assert.Equal(t, 7, svc.Collaborative.DefaultMaxDailyAccess)
	assert.Equal(t, []string{"ID", "JP"}, svc.Collaborative.AllowedCountries)
	assert.False(t, svc.Collaborative.GeoEnabled)
	assert.Equal(t, "https://tasks.example.edu", svc.App.PublicBaseURL)
	assert.Equal(t, int64(2<<20), svc.App.MaxUploadSize)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("server: [1, 2"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))

	cfg, real, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, real)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, _, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	content := `
database:
  type: sqlite
  path: ` + filepath.Join(dir, "db.sqlite3") + `
storage:
  save-path: ` + filepath.Join(dir, "uploads") + `
collaborative:
  geo:
    default-country: sg
`
	cfg, err := ParseConfig([]byte(content))
	require.NoError(t, err)

	_, err = NewApp(cfg, zap.NewNop(), nil)
	assert.Error(t, err)

	db, err := newTestDB(cfg)
	require.NoError(t, err)

	a, err := NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	require.NotNil(t, a.Locator)

	country, err := a.Locator.Country(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "SG", country)

	u, err := a.UserService.Ensure(context.Background(), "rani@uni.ac.id", "")
	require.NoError(t, err)
	assert.Equal(t, "rani", u.Name)

	assert.Equal(t, Version, a.Version().Version)
	require.NoError(t, a.Shutdown(context.Background()))
	// 重复关闭直接返回
	assert.NoError(t, a.Shutdown(context.Background()))
}

func newTestDB(cfg *AppConfig) (*gorm.DB, error) {
	return dao.NewDBEngine(cfg.Database, "test")
}
