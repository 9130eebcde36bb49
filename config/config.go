package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBURL      string
	JWTSecret  string
	JWTTTL     time.Duration
	CORSOrigin string
	GinMode    string

	RateLimitPerMinute int
	RateLimitBurst     int
	RequestTimeout     time.Duration

	OTLPEndpoint string
	ServiceName  string
}

// Load reads .env (when present) and the process environment.
// Missing required variables stop the process.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	return Config{
		Port:       getEnv("PORT", "8080"),
		DBURL:      mustEnv("DB_URL"),
		JWTSecret:  mustEnv("JWT_SECRET"),
		JWTTTL:     getDuration("JWT_TTL", 7*24*time.Hour),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		GinMode:    getEnv("GIN_MODE", "debug"),

		// 500 requests per 15 minutes in the old deployment
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 34),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 50),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 15*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "tour-backoffice"),
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
