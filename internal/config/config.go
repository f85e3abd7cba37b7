package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the engine reads from the environment.
type Config struct {
	Port        string
	DatabaseDSN string
	JWTSecret   string

	// booking policy
	DailyRateThreshold time.Duration

	// sweeper
	SweepInterval time.Duration
	OverdueGrace  time.Duration
	NoShowAfter   time.Duration

	// notifications
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	// space cache
	SpaceCacheTTL time.Duration

	// per-IP rate limiting (requests per second / burst)
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "file::memory:?cache=shared"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),

		DailyRateThreshold: getDuration("DAILY_RATE_THRESHOLD", 24*time.Hour),

		SweepInterval: getDuration("SWEEP_INTERVAL", time.Minute),
		OverdueGrace:  getDuration("OVERDUE_GRACE", 15*time.Minute),
		NoShowAfter:   getDuration("NO_SHOW_AFTER", 2*time.Hour),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "bookings@spacebook.local"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Spacebook"),

		SpaceCacheTTL: getDuration("SPACE_CACHE_TTL", 5*time.Minute),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid %s=%q, using default %v", key, v, fallback)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid %s=%q, using default %s", key, v, fallback)
	}
	return fallback
}
