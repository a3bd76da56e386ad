package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects every process-level setting, loaded once at startup and
// passed by reference into the services that need it. No package keeps an
// ambient copy.
type Config struct {
	Port string

	DatabaseDSN string

	JWTSecret       string
	AccessTokenTTL  int // seconds
	RefreshTokenTTL int // seconds
	EmailTokenTTL   int // seconds

	BaseURL string // public base URL embedded in verification links

	MailAPIURL string
	MailAPIKey string
	MailFrom   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRequests int // per window
	RateLimitWindow   int // seconds
}

// Load reads configs/.env (if present) and assembles the Config from the
// environment, falling back to development defaults.
func Load() *Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "postgres://" + getEnv("DB_USER", "postgres") + ":" + getEnv("DB_PASSWORD", "postgres") +
			"@" + getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432") +
			"/" + getEnv("DB_NAME", "postgres") + "?sslmode=" + getEnv("DB_SSLMODE", "disable")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			log.Fatal("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DatabaseDSN: dsn,

		JWTSecret:       secret,
		AccessTokenTTL:  getEnvInt("ACCESS_TOKEN_TTL_SECONDS", 150*60),
		RefreshTokenTTL: getEnvInt("REFRESH_TOKEN_TTL_SECONDS", 7*24*3600),
		EmailTokenTTL:   getEnvInt("EMAIL_TOKEN_TTL_SECONDS", 24*3600),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		MailAPIURL: os.Getenv("MAIL_API_URL"),
		MailAPIKey: os.Getenv("MAIL_API_KEY"),
		MailFrom:   getEnv("MAIL_FROM", "noreply@contacts.local"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioBucket:    getEnv("MINIO_BUCKET", "avatars"),

		RedisAddr:     getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("WARNING: invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
