package cmd_test

import (
	"log/slog"
	"testing"
	"time"

	"orderapi/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := cmd.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "orders", cfg.OrdersQueue)
	assert.Equal(t, "drivers", cfg.DriversQueue)
	assert.Equal(t, 5*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, "@every 30s", cfg.OfferSchedule)
	assert.Equal(t, 32, cfg.WSSendBuffer)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GEOCODER_TIMEOUT", "750ms")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("OFFER_SCHEDULE", "")

	cfg, err := cmd.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 750*time.Millisecond, cfg.GeocoderTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.OfferSchedule)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WS_SEND_BUFFER", "lots")

	_, err := cmd.LoadConfig()

	require.Error(t, err)
}

func TestConfig_DSN(t *testing.T) {
	cfg := cmd.Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "p@ss word",
		DBName:     "orders",
		DBSslMode:  "disable",
	}

	assert.Equal(t, "postgres://app:p%40ss%20word@db:5433/orders?sslmode=disable", cfg.DSN())
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, cmd.Config{LogLevel: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, cmd.Config{LogLevel: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, cmd.Config{LogLevel: "chatty"}.SlogLevel())
}
