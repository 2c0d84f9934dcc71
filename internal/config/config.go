package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration

	// Timezone is the single canonical zone all reminder calendar math is
	// evaluated in.
	Timezone *time.Location

	// Web Push / VAPID settings.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushTTL         int
	PushTimeout     time.Duration
	PushWorkers     int
}

// LoadConfig reads configuration from a .env file (if present) and the
// process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	tz := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logrus.WithError(err).Fatalf("Invalid TIMEZONE %q", tz)
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "pawpack"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		TokenExpiry:     time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 72)) * time.Hour,
		Timezone:        loc,
		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:admin@pawpack.local"),
		PushTTL:         getEnvInt("PUSH_TTL_SECONDS", 3600),
		PushTimeout:     time.Duration(getEnvInt("PUSH_TIMEOUT_SECONDS", 10)) * time.Second,
		PushWorkers:     getEnvInt("PUSH_WORKERS", 4),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithError(err).Warnf("Ignoring non-numeric %s=%q", key, value)
		return fallback
	}
	return n
}
