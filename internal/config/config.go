package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string         `envconfig:"HTTP_ADDR" default:":8080"`
	StoreDriver                  string         `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI                     string         `envconfig:"MONGO_URI" default:"mongodb://mongo:27017"`
	MongoDatabase                string         `envconfig:"MONGO_DB" default:"survey-app"`
	Timeout                      time.Duration  `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	SQLDSN                       string         `envconfig:"SQL_DSN" default:"file:polls.db"`
	PollCollection               string         `envconfig:"POLLS_COLLECTION" default:"Polls"`
	FailedNotificationCollection string         `envconfig:"FAILED_NOTIFICATION_COLLECTION" default:"failed_notifications"`
	DefaultPageSize              int            `envconfig:"DEFAULT_PAGE_SIZE" default:"100"`
	MaxPageSize                  int            `envconfig:"MAX_PAGE_SIZE" default:"500"`
	AllowedOrigins               []string       `envconfig:"API_ALLOWED_ORIGINS" default:"*"`
	JWTSecret                    string         `envconfig:"AUTH_JWT_SECRET"`
	JWTIssuer                    string         `envconfig:"AUTH_JWT_ISSUER"`
	JWTAudience                  string         `envconfig:"AUTH_JWT_AUDIENCE"`
	MessengerEndpoint            string         `envconfig:"MESSENGER_GATEWAY_URL"`
	MessengerDestination         string         `envconfig:"MESSENGER_DESTINATION" default:"discord"`
	MessengerTimeout             time.Duration  `envconfig:"MESSENGER_GATEWAY_TIMEOUT" default:"3s"`
	LogLevel                     string         `envconfig:"LOG_LEVEL" default:"info"`
	ServerLog                    *logrus.Logger `ignored:"true"`
}

// Load reads environment variables and returns a fully populated Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case DriverMongo, DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be one of mongo, sqlite, postgres: %q", cfg.StoreDriver)
	}
	if cfg.DefaultPageSize <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_PAGE_SIZE must be positive: %d", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return Config{}, fmt.Errorf("MAX_PAGE_SIZE (%d) must not be below DEFAULT_PAGE_SIZE (%d)", cfg.MaxPageSize, cfg.DefaultPageSize)
	}
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins, []string{"*"})
	cfg.MessengerEndpoint = strings.TrimRight(strings.TrimSpace(cfg.MessengerEndpoint), "/")

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.ServerLog = logger

	cfg.ServerLog.Printf("loaded config: driver=%q addr=%q collection=%q messengerEndpoint=%q", cfg.StoreDriver, cfg.Addr, cfg.PollCollection, cfg.MessengerEndpoint)

	return cfg, nil
}

// JWTConfigs returns the token verifiers enabled by the environment.
func (c Config) JWTConfigs() []JWTConfig {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return nil
	}
	return []JWTConfig{{Issuer: strings.TrimSpace(c.JWTIssuer), Secret: []byte(secret)}}
}

// NewLogger builds the text logger used across the server.
func NewLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return &logrus.Logger{
		Out:       os.Stdout,
		Formatter: &logrus.TextFormatter{FullTimestamp: true},
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
	}, nil
}

func cleanList(items []string, fallback []string) []string {
	values := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			values = append(values, item)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
