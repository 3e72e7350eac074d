package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not an int, using %d", key, v, def)
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// APP CONFIG
// =======================

type DBConfig struct {
	Host             string
	Port             string
	User             string
	Password         string
	Name             string
	SSLMode          string
	StatementTimeout time.Duration
	MaxOpenConns     int
	MaxIdleConns     int
}

// DSN builds the postgres URL. DATABASE_URL wins when present.
func (d DBConfig) DSN() string {
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=jobintake&options=-c%%20statement_timeout=%d",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode, d.StatementTimeout.Milliseconds(),
	)
}

type RateLimitConfig struct {
	Max       int
	Window    time.Duration
	SubmitMax int
	RedisURL  string
}

type ReaperConfig struct {
	Enabled  bool
	Schedule string
	Grace    time.Duration
	DryRun   bool
}

type AppConfig struct {
	Env            string
	Port           string
	DB             DBConfig
	UploadDir      string
	MaxUploadBytes int64
	BodyLimitBytes int
	RequestTimeout time.Duration
	CORSOrigins    []string
	RateLimit      RateLimitConfig
	AdminJWTSecret string
	Reaper         ReaperConfig
	UploadPolicy   string // optional YAML file overriding the built-in policy
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads every setting from the environment. Call LoadEnv first.
func Load() *AppConfig {
	cfg := &AppConfig{
		Env:  strings.ToLower(GetEnv("APP_ENV", "production")),
		Port: GetEnv("PORT", "3431"),
		DB: DBConfig{
			Host:             GetEnv("DB_HOST", "localhost"),
			Port:             GetEnv("DB_PORT", "5432"),
			User:             GetEnv("DB_USER", "postgres"),
			Password:         GetEnv("DB_PASSWORD"),
			Name:             GetEnv("DB_NAME", "job_applications"),
			SSLMode:          GetEnv("DB_SSLMODE", "disable"),
			StatementTimeout: getEnvDuration("DB_STATEMENT_TIMEOUT", 5*time.Second),
			MaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     getEnvInt("DB_MAX_IDLE_CONNS", 10),
		},
		UploadDir:      GetEnv("UPLOAD_DIR", "Uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 5)) << 20,
		BodyLimitBytes: getEnvInt("BODY_LIMIT_MB", 60) << 20,
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		CORSOrigins: splitCSV(GetEnv("CORS_ALLOW_ORIGINS",
			"http://localhost:3000,http://localhost:5173,http://127.0.0.1:5500")),
		RateLimit: RateLimitConfig{
			Max:       getEnvInt("RATE_LIMIT_MAX", 100),
			Window:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			SubmitMax: getEnvInt("SUBMIT_RATE_LIMIT_MAX", 5),
			RedisURL:  GetEnv("REDIS_URL"),
		},
		AdminJWTSecret: GetEnv("ADMIN_JWT_SECRET"),
		Reaper: ReaperConfig{
			Enabled:  getEnvBool("REAPER_ENABLED", true),
			Schedule: GetEnv("REAPER_CRON", "@every 1h"),
			Grace:    getEnvDuration("REAPER_GRACE", time.Hour),
			DryRun:   getEnvBool("REAPER_DRY_RUN", false),
		},
		UploadPolicy: GetEnv("UPLOAD_POLICY_FILE"),
	}

	if cfg.AdminJWTSecret == "" {
		log.Println("⚠️ ADMIN_JWT_SECRET not set, HR endpoints are open")
	} else {
		log.Println("✅ ADMIN_JWT_SECRET loaded")
	}
	return cfg
}
