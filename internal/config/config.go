package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	SLA          SLAConfig
	Scheduler    SchedulerConfig
	Dashboard    DashboardConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// NotificationConfig holds notification delivery settings. Empty values
// disable the corresponding channel.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// SLAConfig carries every SLA threshold. These were once literals scattered
// across the codebase; they are configured here so the persisted-status rule
// and the display rule cannot silently drift further apart.
type SLAConfig struct {
	ResponseWarningMinutes int
	SolutionWarningMinutes int
	DisplayWarningMinutes  int
	HighUrgencyMinutes     int
	SummaryNearMinutes     int
	BatchSize              int
	// CronToken authorizes external scheduler calls to the SLA cron
	// endpoint. Empty means the endpoint is open (development only).
	CronToken string
}

// SchedulerConfig controls the in-process reconciliation schedule.
type SchedulerConfig struct {
	Enabled  bool
	CronSpec string
}

// DashboardConfig controls dashboard metric caching.
type DashboardConfig struct {
	CacheTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		SLA: SLAConfig{
			ResponseWarningMinutes: getEnvAsInt("SLA_RESPONSE_WARNING_MINUTES", 120),
			SolutionWarningMinutes: getEnvAsInt("SLA_SOLUTION_WARNING_MINUTES", 240),
			DisplayWarningMinutes:  getEnvAsInt("SLA_DISPLAY_WARNING_MINUTES", 10),
			HighUrgencyMinutes:     getEnvAsInt("SLA_HIGH_URGENCY_MINUTES", 120),
			SummaryNearMinutes:     getEnvAsInt("SLA_SUMMARY_NEAR_MINUTES", 240),
			BatchSize:              getEnvAsInt("SLA_BATCH_SIZE", 50),
			CronToken:              os.Getenv("CRON_SLA_TOKEN"),
		},
		Scheduler: SchedulerConfig{
			Enabled:  getEnvAsBool("SCHEDULER_ENABLED", false),
			CronSpec: getEnv("SCHEDULER_CRON_SPEC", "*/30 * * * *"),
		},
		Dashboard: DashboardConfig{
			CacheTTLSeconds: getEnvAsInt("DASHBOARD_CACHE_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ResponseWarning returns the response warning window as a duration.
func (s SLAConfig) ResponseWarning() time.Duration {
	return time.Duration(s.ResponseWarningMinutes) * time.Minute
}

// SolutionWarning returns the solution warning window as a duration.
func (s SLAConfig) SolutionWarning() time.Duration {
	return time.Duration(s.SolutionWarningMinutes) * time.Minute
}

// DisplayWarning returns the display-only warning window as a duration.
func (s SLAConfig) DisplayWarning() time.Duration {
	return time.Duration(s.DisplayWarningMinutes) * time.Minute
}

// HighUrgency returns the ALTO alert tier window as a duration.
func (s SLAConfig) HighUrgency() time.Duration {
	return time.Duration(s.HighUrgencyMinutes) * time.Minute
}

// SummaryNear returns the alert summary bucket window as a duration.
func (s SLAConfig) SummaryNear() time.Duration {
	return time.Duration(s.SummaryNearMinutes) * time.Minute
}

// CacheTTL returns the dashboard cache TTL as a duration.
func (d DashboardConfig) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
