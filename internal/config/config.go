package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName        string
	Port           string
	AllowedOrigins string

	DBDriver    string // sqlite | postgres
	DatabaseURL string
	SQLitePath  string
	DBLog       bool

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	PriceCacheTTLSeconds int

	// Seeded into system_settings only when the key does not exist yet.
	DefaultKegDepositPrice string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("PRICE_CACHE_TTL_SECONDS", "300"))
	if err != nil || ttl < 1 {
		ttl = 300
	}

	return Config{
		AppName:                getEnv("APP_NAME", "Brewery Operations v1.0"),
		Port:                   getEnv("PORT", "3000"),
		AllowedOrigins:         getEnv("ALLOWED_ORIGINS", "*"),
		DBDriver:               strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		SQLitePath:             getEnv("SQLITE_PATH", "brewops.db"),
		DBLog:                  parseBool(os.Getenv("DB_LOG")),
		JWTSecret:              strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AdminEmail:             getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:          os.Getenv("ADMIN_PASSWORD"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                redisDB,
		PriceCacheTTLSeconds:   ttl,
		DefaultKegDepositPrice: strings.TrimSpace(os.Getenv("KEG_DEPOSIT_PRICE")),
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
