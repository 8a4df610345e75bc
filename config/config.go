package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	HTTP    ServerConfig
	MySQL   MySQLConfig
	Log     LogConfig
	Omise   OmiseConfig
	Gateway GatewayConfig
	Jobs    JobsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

// OmiseConfig carries both key pairs; Gateway.Mode selects the active pair.
type OmiseConfig struct {
	TestSecretKey string
	TestPublicKey string
	LiveSecretKey string
	LivePublicKey string
	BaseURL       string
	HTTPTimeout   time.Duration
}

type GatewayConfig struct {
	// Mode is "test" or "live". It keys the customer profile cache and
	// selects the active API key pair.
	Mode string

	// CapturePolicy is "auto_capture", "manual_capture", or empty to let
	// the provider apply its own default.
	CapturePolicy string

	// ReturnBaseURL is where the provider sends the buyer back after an
	// out-of-band authorization step (3-D Secure).
	ReturnBaseURL string

	// RedirectRelayURL is the internal endpoint the redirect-relay
	// callback forwards to, carrying order_id as a query parameter.
	RedirectRelayURL string

	SyncStaleAfter time.Duration
	JobBatchSize   int32
}

type JobsConfig struct {
	SyncInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	mode := getEnv("OMISE_MODE", "test")
	if mode != "test" && mode != "live" {
		return nil, errors.New("OMISE_MODE must be test or live")
	}

	capturePolicy := os.Getenv("OMISE_CAPTURE_POLICY")
	switch capturePolicy {
	case "auto_capture", "manual_capture", "":
	default:
		return nil, errors.New("OMISE_CAPTURE_POLICY must be auto_capture, manual_capture, or empty")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "omise-gateway"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Omise: OmiseConfig{
			TestSecretKey: getEnv("OMISE_TEST_SECRET_KEY", ""),
			TestPublicKey: getEnv("OMISE_TEST_PUBLIC_KEY", ""),
			LiveSecretKey: getEnv("OMISE_LIVE_SECRET_KEY", ""),
			LivePublicKey: getEnv("OMISE_LIVE_PUBLIC_KEY", ""),
			BaseURL:       getEnv("OMISE_API_BASE_URL", "https://api.omise.co"),
			HTTPTimeout:   getSecondsEnv("OMISE_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Gateway: GatewayConfig{
			Mode:             mode,
			CapturePolicy:    capturePolicy,
			ReturnBaseURL:    getEnv("GATEWAY_RETURN_BASE_URL", ""),
			RedirectRelayURL: getEnv("GATEWAY_REDIRECT_RELAY_URL", ""),
			SyncStaleAfter:   getMinutesEnv("GATEWAY_SYNC_STALE_AFTER_MINUTES", 15*time.Minute),
			JobBatchSize:     int32(getIntEnv("GATEWAY_JOB_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			SyncInterval: getMinutesEnv("GATEWAY_SYNC_INTERVAL_MINUTES", 2*time.Minute),
		},
	}, nil
}

// SecretKey returns the API secret key for the configured mode.
func (c *Config) SecretKey() string {
	if c.Gateway.Mode == "live" {
		return c.Omise.LiveSecretKey
	}
	return c.Omise.TestSecretKey
}

// PublicKey returns the browser-side tokenization key for the configured mode.
func (c *Config) PublicKey() string {
	if c.Gateway.Mode == "live" {
		return c.Omise.LivePublicKey
	}
	return c.Omise.TestPublicKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
