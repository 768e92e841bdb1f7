package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// State backends
const (
	StateBackendMemory = "memory"
	StateBackendRedis  = "redis"
)

// Config holds all configuration for both bot services
type Config struct {
	Telegram  TelegramConfig
	Database  DatabaseConfig
	MediaAPI  MediaAPIConfig
	Tracker   TrackerConfig
	Kafka     KafkaConfig
	State     StateConfig
	Broadcast BroadcastConfig
	Gate      GateConfig
	Stats     StatsConfig
	Logging   LoggingConfig
	Service   ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken   string
	AdminID    int64
	SupportURL string
}

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// MediaAPIConfig holds media-resolution API configuration
type MediaAPIConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// TrackerConfig holds transaction tracker configuration
type TrackerConfig struct {
	APIURL   string
	Limit    int
	Timeout  time.Duration
	ChatID   string
	Interval time.Duration
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables the report writer.
type KafkaConfig struct {
	Brokers     []string
	ReportTopic string
}

// StateConfig holds conversation state backend configuration
type StateConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// BroadcastConfig holds broadcast fan-out configuration
type BroadcastConfig struct {
	RatePerSecond float64
}

// GateConfig holds membership gate configuration
type GateConfig struct {
	// MembershipTTL of zero means confirmations never expire
	MembershipTTL time.Duration
}

// StatsConfig holds daily statistics job configuration
type StatsConfig struct {
	Schedule string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Database  *DatabaseConfig
	MediaAPI  *MediaAPIConfig
	Tracker   *TrackerConfig
	Kafka     *KafkaConfig
	State     *StateConfig
	Broadcast *BroadcastConfig
	Gate      *GateConfig
	Stats     *StatsConfig
	Logging   *LoggingConfig
	Service   *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return split(cfg), nil
}

// OutTracker loads configuration and additionally validates tracker settings
func OutTracker() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	if err := cfg.ValidateTracker(); err != nil {
		return Result{}, err
	}

	return split(cfg), nil
}

func split(cfg *Config) Result {
	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Database:  &cfg.Database,
		MediaAPI:  &cfg.MediaAPI,
		Tracker:   &cfg.Tracker,
		Kafka:     &cfg.Kafka,
		State:     &cfg.State,
		Broadcast: &cfg.Broadcast,
		Gate:      &cfg.Gate,
		Stats:     &cfg.Stats,
		Logging:   &cfg.Logging,
		Service:   &cfg.Service,
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	adminID, err := strconv.ParseInt(getEnv("ADMIN_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_ID: %w", err)
	}

	mediaTimeout, err := time.ParseDuration(getEnv("MEDIA_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_API_TIMEOUT: %w", err)
	}

	trackerTimeout, err := time.ParseDuration(getEnv("TRON_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRON_API_TIMEOUT: %w", err)
	}

	interval, err := parseSeconds(getEnv("UPDATE_INTERVAL", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPDATE_INTERVAL: %w", err)
	}

	limit, err := strconv.Atoi(getEnv("TRON_LIMIT", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRON_LIMIT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	stateTTL, err := time.ParseDuration(getEnv("STATE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_TTL: %w", err)
	}

	rate, err := strconv.ParseFloat(getEnv("BROADCAST_RATE", "25"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BROADCAST_RATE: %w", err)
	}

	membershipTTL, err := time.ParseDuration(getEnv("MEMBERSHIP_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEMBERSHIP_TTL: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken:   getEnv("BOT_TOKEN", ""),
			AdminID:    adminID,
			SupportURL: getEnv("SUPPORT_URL", "https://t.me/twexity"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:     getEnv("DB_PATH", "bot_database.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "relaybots"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MediaAPI: MediaAPIConfig{
			URL:     getEnv("MEDIA_API_URL", "https://api.fast-creat.ir/instagram"),
			APIKey:  getEnv("API_KEY", ""),
			Timeout: mediaTimeout,
		},
		Tracker: TrackerConfig{
			APIURL:   getEnv("TRON_API_URL", "https://apilist.tronscan.org/api/transaction"),
			Limit:    limit,
			Timeout:  trackerTimeout,
			ChatID:   getEnv("CHAT_ID", ""),
			Interval: interval,
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(getEnv("KAFKA_BROKERS", "")),
			ReportTopic: getEnv("KAFKA_REPORT_TOPIC", "tron.reports"),
		},
		State: StateConfig{
			Backend:       strings.ToLower(getEnv("STATE_BACKEND", StateBackendMemory)),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			TTL:           stateTTL,
		},
		Broadcast: BroadcastConfig{
			RatePerSecond: rate,
		},
		Gate: GateConfig{
			MembershipTTL: membershipTTL,
		},
		Stats: StatsConfig{
			Schedule: getEnv("STATS_SCHEDULE", "55 23 * * *"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "relaybots"),
			Port: getEnv("PORT", "5000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration shared by both services
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.State.Backend {
	case StateBackendMemory, StateBackendRedis:
	default:
		return fmt.Errorf("unsupported STATE_BACKEND %q", c.State.Backend)
	}

	if c.Tracker.Interval <= 0 {
		return fmt.Errorf("UPDATE_INTERVAL must be positive")
	}

	if c.Tracker.Limit <= 0 {
		return fmt.Errorf("TRON_LIMIT must be positive")
	}

	if c.Broadcast.RatePerSecond <= 0 {
		return fmt.Errorf("BROADCAST_RATE must be positive")
	}

	return nil
}

// ValidateTracker validates settings only the tracker needs
func (c *Config) ValidateTracker() error {
	if c.Tracker.ChatID == "" {
		return fmt.Errorf("CHAT_ID is required")
	}
	return nil
}

// parseSeconds accepts either a bare number of seconds or a Go duration
func parseSeconds(value string) (time.Duration, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
