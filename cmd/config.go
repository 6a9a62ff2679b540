package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"parceltrack/internal/adapters/out/ors"
	"parceltrack/internal/adapters/out/rabbitmq"
	"parceltrack/internal/adapters/out/rediscache"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/route"
	"parceltrack/internal/jobs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ORSAPIKey  string
	ORSBaseURL string
	ORSProfile string

	// Optional integrations, disabled when the URL is empty.
	RedisURL       string
	LabelCacheTTL  time.Duration
	RabbitMQURL    string
	EventsExchange string

	ReconcileSchedule   string
	ReconcileTimeout    time.Duration
	ReconcileWorkers    int
	GeocodeRateInterval time.Duration
	WaypointCount       int
}

// LoadDotEnv loads variables from path into the process environment.
// A missing file is not an error; variables already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads the configuration through getenv, applying defaults to
// unset keys. All parse and validation problems are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	p := envParser{getenv: getenv}

	cfg := Config{
		HTTPPort:   p.str("HTTP_PORT", "8080"),
		DBHost:     p.str("DB_HOST", "localhost"),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", ""),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", ""),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),

		ORSAPIKey:  p.str("ORS_API_KEY", ""),
		ORSBaseURL: p.str("ORS_BASE_URL", ors.DefaultBaseURL),
		ORSProfile: p.str("ORS_PROFILE", ors.DefaultProfile),

		RedisURL:       p.str("REDIS_URL", ""),
		LabelCacheTTL:  p.duration("LABEL_CACHE_TTL", rediscache.DefaultLabelTTL),
		RabbitMQURL:    p.str("RABBITMQ_URL", ""),
		EventsExchange: p.str("EVENTS_EXCHANGE", rabbitmq.DefaultExchange),

		ReconcileSchedule:   p.str("RECONCILE_SCHEDULE", jobs.DefaultReconcileSchedule),
		ReconcileTimeout:    p.duration("RECONCILE_TIMEOUT", jobs.DefaultReconcileTimeout),
		ReconcileWorkers:    p.integer("RECONCILE_WORKERS", commands.DefaultReconcileWorkers),
		GeocodeRateInterval: p.duration("GEOCODE_RATE_INTERVAL", commands.DefaultGeocodeInterval),
		WaypointCount:       p.integer("WAYPOINT_COUNT", route.DefaultWaypointCount),
	}

	p.required("DB_USER", cfg.DBUser)
	p.required("DB_NAME", cfg.DBName)
	p.required("ORS_API_KEY", cfg.ORSAPIKey)
	if cfg.ReconcileWorkers < 1 {
		p.fail("RECONCILE_WORKERS must be at least 1")
	}
	if cfg.WaypointCount < route.MinWaypointCount {
		p.fail(fmt.Sprintf("WAYPOINT_COUNT must be at least %d", route.MinWaypointCount))
	}
	if cfg.GeocodeRateInterval <= 0 {
		p.fail("GEOCODE_RATE_INTERVAL must be positive")
	}

	if len(p.problems) > 0 {
		return Config{}, fmt.Errorf("invalid config: %s", strings.Join(p.problems, "; "))
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envParser struct {
	getenv   func(string) string
	problems []string
}

func (p *envParser) fail(problem string) {
	p.problems = append(p.problems, problem)
}

func (p *envParser) lookup(key string) string {
	return strings.TrimSpace(p.getenv(key))
}

func (p *envParser) str(key, def string) string {
	if v := p.lookup(key); v != "" {
		return v
	}
	return def
}

func (p *envParser) integer(key string, def int) int {
	v := p.lookup(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Sprintf("%s must be an integer: %q", key, v))
		return def
	}
	return n
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := p.lookup(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(fmt.Sprintf("%s must be a duration like 1s or 5m: %q", key, v))
		return def
	}
	return d
}

func (p *envParser) required(key, value string) {
	if value == "" {
		p.fail(key + " is required")
	}
}
