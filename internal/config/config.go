package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/cache"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

const AppName = "customer-account-deletion-request"

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	// DBUrl empty means the in-memory store (development profile).
	DBUrl        string
	SeedTestData bool

	RSAPublicKey *rsa.PublicKey

	Cache                cache.Config
	CacheAutoRefresh     bool
	CacheRefreshInterval time.Duration
}

func LoadConfig() *Config {
	// Best-effort in development; deployed profiles set real env vars.
	_ = godotenv.Load()

	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL_FROM_ANYWHERE")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		utils.Logger.Info("DB_URL not set; using the in-memory store with seed data.")
	}

	pubKeyB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubKeyB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubKeyPEM, err := base64.StdEncoding.DecodeString(pubKeyB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubKeyPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key PEM")
	}

	cacheCfg := cache.Config{
		Key:                envOrDefault("CACHE_KEY", "CustomerAccountDeletionRequests"),
		AbsoluteExpiration: durationEnv("CACHE_ABSOLUTE_EXPIRATION", 20*time.Minute),
		SlidingExpiration:  durationEnv("CACHE_SLIDING_EXPIRATION", 10*time.Minute),
		Priority:           cache.Priority(envOrDefault("CACHE_PRIORITY", string(cache.PriorityNeverRemove))),
	}

	cfg := &Config{
		AppName:              AppName,
		AppPort:              appPort,
		AppUrl:               appUrl,
		DBUrl:                dbUrl,
		SeedTestData:         os.Getenv("SEED_TEST_DATA") == "true",
		RSAPublicKey:         publicKey,
		Cache:                cacheCfg,
		CacheAutoRefresh:     envOrDefault("CACHE_AUTO_REFRESH", "true") == "true",
		CacheRefreshInterval: durationEnv("CACHE_REFRESH_INTERVAL", cacheCfg.AbsoluteExpiration),
	}

	utils.Logger.Infof("Loaded config for %s (cache key=%q, absolute=%v, sliding=%v, auto-refresh=%t)",
		AppName, cfg.Cache.Key, cfg.Cache.AbsoluteExpiration, cfg.Cache.SlidingExpiration, cfg.CacheAutoRefresh)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("%s is not a valid duration", key)
	}
	return d
}
