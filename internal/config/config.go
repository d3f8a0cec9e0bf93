package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultReminderTemplate = "Hola {name}, te recordamos tu cita en {business} el {date} a las {time} con {employee}."

type Config struct {
	Env        string
	ServerPort string

	// Empty DBUrl keeps everything in memory.
	DBUrl string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BusinessName     string
	BusinessTimezone string
	DefaultCountry   string
	Currency         string
	OpeningTime      string
	ClosingTime      string

	EnforceBusinessHours bool
	SlotGranularityMin   int
	DefaultDurationMin   int
	AllowPastBookings    bool

	RemindersEnabled bool
	ReminderOffsets  []time.Duration
	ReminderTemplate string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	RateLimitRPS   float64
	RateLimitBurst int

	AllowedOrigins []string
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	offsets, err := parseDurations(getEnv("REMINDER_OFFSETS", "48h,24h"))
	if err != nil {
		return nil, fmt.Errorf("REMINDER_OFFSETS: %w", err)
	}

	var env envReader
	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBUrl:      getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       env.int("REDIS_DB", 0),

		BusinessName:     getEnv("BUSINESS_NAME", "Studio"),
		BusinessTimezone: getEnv("BUSINESS_TIMEZONE", "Europe/Madrid"),
		DefaultCountry:   strings.ToUpper(getEnv("DEFAULT_COUNTRY", "ES")),
		Currency:         strings.ToUpper(getEnv("CURRENCY", "EUR")),
		OpeningTime:      getEnv("OPENING_TIME", "09:00"),
		ClosingTime:      getEnv("CLOSING_TIME", "18:00"),

		EnforceBusinessHours: env.bool("ENFORCE_BUSINESS_HOURS", false),
		SlotGranularityMin:   env.int("SLOT_GRANULARITY_MIN", 15),
		DefaultDurationMin:   env.int("DEFAULT_DURATION_MIN", 60),
		AllowPastBookings:    env.bool("ALLOW_PAST_BOOKINGS", false),

		RemindersEnabled: env.bool("REMINDERS_ENABLED", false),
		ReminderOffsets:  offsets,
		ReminderTemplate: getEnv("REMINDER_TEMPLATE", DefaultReminderTemplate),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "eu-west-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		RateLimitRPS:   env.float("RATE_LIMIT_RPS", 10),
		RateLimitBurst: env.int("RATE_LIMIT_BURST", 20),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
	}

	if env.err != nil {
		return nil, env.err
	}
	if cfg.SlotGranularityMin < 0 {
		return nil, fmt.Errorf("SLOT_GRANULARITY_MIN must not be negative")
	}
	if cfg.DefaultDurationMin <= 0 {
		return nil, fmt.Errorf("DEFAULT_DURATION_MIN must be positive")
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envReader parses typed variables and keeps the first malformed one, so a
// typo fails startup instead of silently using the default.
type envReader struct {
	err error
}

func (r *envReader) parse(key string, parse func(string) error) {
	v := os.Getenv(key)
	if v == "" || r.err != nil {
		return
	}
	if err := parse(v); err != nil {
		r.err = fmt.Errorf("%s: invalid value %q", key, v)
	}
}

func (r *envReader) int(key string, def int) int {
	r.parse(key, func(v string) (err error) {
		def, err = strconv.Atoi(strings.TrimSpace(v))
		return err
	})
	return def
}

func (r *envReader) float(key string, def float64) float64 {
	r.parse(key, func(v string) (err error) {
		def, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err
	})
	return def
}

func (r *envReader) bool(key string, def bool) bool {
	r.parse(key, func(v string) (err error) {
		def, err = strconv.ParseBool(strings.TrimSpace(v))
		return err
	})
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDurations reads a comma separated list such as "48h,24h".
func parseDurations(s string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range splitList(s) {
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("offset %q must be positive", part)
		}
		out = append(out, d)
	}
	return out, nil
}
