package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, int64(80002), cfg.ChainID)
	assert.Equal(t, int64(1000), cfg.RewardStepsPerSTPC)
	assert.Empty(t, cfg.RewardSignerPrivKey, "vouchers are off unless a key is set")
	assert.False(t, cfg.DevMode)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHAIN_ID", "137")
	t.Setenv("REWARD_STEPS_PER_STPC", "10")
	t.Setenv("STPC_CONTRACT_ADDRESS", "0x1111111111111111111111111111111111111111")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")

	cfg := Load()
	assert.Equal(t, int64(137), cfg.ChainID)
	assert.Equal(t, int64(10), cfg.RewardStepsPerSTPC)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.STPCContractAddress)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 5*time.Minute, cfg.JWTAccessExpiry)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("CHAIN_ID", "zero")
	t.Setenv("REWARD_STEPS_PER_STPC", "-5")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	cfg := Load()
	assert.Equal(t, int64(80002), cfg.ChainID)
	assert.Equal(t, int64(1000), cfg.RewardStepsPerSTPC)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
}

func TestDevModeViaAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	assert.True(t, Load().DevMode)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "walklet")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "walklet_db")

	dsn := Load().DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "user=walklet")
	assert.Contains(t, dsn, "dbname=walklet_db")
	assert.Contains(t, dsn, "sslmode=disable")
}
