package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	StaticDir      string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	AdminUsername string
	AdminPassword string

	// Cron expression for the background overdue sweep. Empty disables it;
	// the sweep then runs only through the admin endpoint.
	OverdueSweepSchedule string

	LoginMaxAttempts int
	LoginLockWindow  time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		StaticDir:      getEnv("STATIC_DIR", "web/static"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: os.Getenv("DB_PASS"),
		DBName: getEnv("DB_NAME", "library_management"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		OverdueSweepSchedule: os.Getenv("OVERDUE_SWEEP_SCHEDULE"),

		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
	}

	ttlMinutes := getEnvInt("JWT_TTL_MINUTES", 60)
	cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute

	lockMinutes := getEnvInt("LOGIN_LOCK_MINUTES", 15)
	cfg.LoginLockWindow = time.Duration(lockMinutes) * time.Minute

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
