package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings.
type Config struct {
	DatabaseDSN string
	Port        string

	ClientOrigin string
	UploadDir    string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	RedisAddr     string
	RedisPassword string

	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseDSN:      os.Getenv("DATABASE_URL"),
		Port:             getenv("PORT", "8080"),
		ClientOrigin:     getenv("CLIENT_ORIGIN", "http://localhost:5173"),
		UploadDir:        getenv("UPLOAD_DIR", "./uploads"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:        getduration("JWT_EXPIRE", 15*time.Minute),
		RefreshTTL:       getduration("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getenv("DB_NAME", "marketplace"),
			getenv("DB_PORT", "5432"),
		)
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
