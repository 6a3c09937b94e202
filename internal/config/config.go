package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Google Sign-In
	GoogleClientID string

	// Nutrition API
	NutritionAPIURL string
	NutritionAPIKey string

	// Custodial wallets: 32-byte hex master key for AES-256-GCM key bundles
	WalletEncryptionKey string

	// Rewards
	ChainID             int64
	STPCContractAddress string
	RewardStepsPerSTPC  int64
	RewardSignerPrivKey string

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port        string
	CORSOrigins string
	DevMode     bool
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "walklet_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		NutritionAPIURL: getEnv("NUTRITION_API_URL", "https://api.calorieninjas.com/v1/nutrition"),
		NutritionAPIKey: getEnv("NUTRITION_API_KEY", ""),

		WalletEncryptionKey: getEnv("WALLET_ENCRYPTION_KEY", ""),

		ChainID:             parsePositiveInt64(getEnv("CHAIN_ID", "80002"), 80002),
		STPCContractAddress: getEnv("STPC_CONTRACT_ADDRESS", ""),
		RewardStepsPerSTPC:  parsePositiveInt64(getEnv("REWARD_STEPS_PER_STPC", "1000"), 1000),
		RewardSignerPrivKey: getEnv("REWARD_SIGNER_PRIVATE_KEY", ""),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		DevMode:     getEnv("DEV_MODE", "false") == "true" || getEnv("APP_ENV", "") == "development",
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parsePositiveInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
