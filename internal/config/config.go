package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQL   = "sql"
	DriverRedis = "redis"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	StorageDriver string
	DatabaseURL   string
	RedisURL      string

	KafkaBrokers []string

	SessionSecret []byte
	SessionTTL    time.Duration
	CookieSecure  bool

	CheckoutDelay    time.Duration
	OrderIDPrefix    string
	DeliveryEstimate string

	MenuFile string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "handi_point"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		StorageDriver: strings.ToLower(EnvDefault("STORAGE_DRIVER", DriverSQL)),
		DatabaseURL:   EnvDefault("DATABASE_URL", "handi_point.db"),
		RedisURL:      os.Getenv("REDIS_URL"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 30*24*time.Hour),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),

		CheckoutDelay:    EnvDurationDefault("CHECKOUT_DELAY", 2*time.Second),
		OrderIDPrefix:    EnvDefault("ORDER_ID_PREFIX", "HP"),
		DeliveryEstimate: EnvDefault("DELIVERY_ESTIMATE", "30-45 minutes"),

		MenuFile: os.Getenv("MENU_FILE"),
	}
}

// MustLoad is Load plus Validate; it exits when the config is unusable.
func MustLoad() Config {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvDurationDefault accepts Go durations ("1500ms") and bare integers as milliseconds.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
