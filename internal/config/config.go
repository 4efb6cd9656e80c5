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
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Search   SearchConfig
	Broker   BrokerConfig
}

// AppConfig controls server level behavior. Name doubles as the app_id
// attached to every published event.
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

// SearchConfig bounds user search pagination.
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// BrokerConfig names the pub/sub channels for both directions.
type BrokerConfig struct {
	CreatedChannel           string
	UpdatedChannel           string
	DeletedChannel           string
	OperationErrorChannel    string
	CreationRequestedChannel string
	UpdateRequestedChannel   string
	DeletionRequestedChannel string
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
			Name:                  getEnv("APP_NAME", "user-service"),
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
		Search: SearchConfig{
			DefaultLimit: getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvAsInt("SEARCH_MAX_LIMIT", 100),
		},
		Broker: BrokerConfig{
			CreatedChannel:           getEnv("BROKER_USER_CREATED_CHANNEL", "user.created"),
			UpdatedChannel:           getEnv("BROKER_USER_UPDATED_CHANNEL", "user.updated"),
			DeletedChannel:           getEnv("BROKER_USER_DELETED_CHANNEL", "user.deleted"),
			OperationErrorChannel:    getEnv("BROKER_USER_OPERATION_ERROR_CHANNEL", "user.operation.error"),
			CreationRequestedChannel: getEnv("BROKER_USER_CREATION_REQUESTED_CHANNEL", "user.creation.requested"),
			UpdateRequestedChannel:   getEnv("BROKER_USER_UPDATE_REQUESTED_CHANNEL", "user.update.requested"),
			DeletionRequestedChannel: getEnv("BROKER_USER_DELETION_REQUESTED_CHANNEL", "user.deletion.requested"),
		},
	}

	if cfg.Search.DefaultLimit < 1 || cfg.Search.MaxLimit < 1 {
		return nil, fmt.Errorf("search limits must be positive")
	}
	if cfg.Search.DefaultLimit > cfg.Search.MaxLimit {
		return nil, fmt.Errorf("SEARCH_DEFAULT_LIMIT exceeds SEARCH_MAX_LIMIT")
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
