package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host string
		Port string
	}

	// Discovery holds the tunables of the candidate engine. These are
	// named parameters rather than literals so product can adjust them
	// without a code change.
	Discovery struct {
		CooldownWindow    time.Duration // re-offer lockout after any reaction
		FeedTTL           time.Duration // cached candidate list lifetime
		ScanCap           int           // max candidates fetched per refill
		ScanTimeout       time.Duration // bound on a single DB candidate scan
		DefaultPageSize   int
		MaxPageSize       int
		TopLimit          int           // size of the top profiles list
		TopRecencyWindow  time.Duration // mutual-exchange lockout for top profiles
		NearbyThresholdKm float64       // fixed radius of the "nearby" likes filter
		GateTierBaseline  int           // entitlement tier must exceed this for gated filters
		PhotoCap          int           // max photos per hydrated profile
	}
}

func New() *Config {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "discovery")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "heartlink")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")

	// Discovery engine
	cfg.Discovery.CooldownWindow = getEnvDuration("DISCOVERY_COOLDOWN_WINDOW", 24*time.Hour)
	cfg.Discovery.FeedTTL = getEnvDuration("DISCOVERY_FEED_TTL", 4*time.Hour)
	cfg.Discovery.ScanCap = getEnvInt("DISCOVERY_SCAN_CAP", 1000)
	cfg.Discovery.ScanTimeout = getEnvDuration("DISCOVERY_SCAN_TIMEOUT", 5*time.Second)
	cfg.Discovery.DefaultPageSize = getEnvInt("DISCOVERY_PAGE_SIZE", 10)
	cfg.Discovery.MaxPageSize = getEnvInt("DISCOVERY_MAX_PAGE_SIZE", 50)
	cfg.Discovery.TopLimit = getEnvInt("DISCOVERY_TOP_LIMIT", 15)
	cfg.Discovery.TopRecencyWindow = getEnvDuration("DISCOVERY_TOP_RECENCY_WINDOW", 72*time.Hour)
	cfg.Discovery.NearbyThresholdKm = getEnvFloat("DISCOVERY_NEARBY_KM", 50)
	cfg.Discovery.GateTierBaseline = getEnvInt("DISCOVERY_GATE_TIER", 1)
	cfg.Discovery.PhotoCap = getEnvInt("DISCOVERY_PHOTO_CAP", 6)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
