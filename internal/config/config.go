package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/net/websocket"
)

// envPrefix is prepended to every variable name, e.g. NEXTSTEP_LOG_LEVEL
const envPrefix = "NEXTSTEP"

// Environment is the backend environment the app talks to
type Environment string

const (
	EnvironmentDev     Environment = "dev"
	EnvironmentAbnahme Environment = "abnahme"
	EnvironmentProd    Environment = "prod"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig

	Logger *slog.Logger
}

type AppConfig struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"dev"`
	Version     string      `envconfig:"APP_VERSION" default:"1.0.0"`
	BuildNumber string      `envconfig:"BUILD_NUMBER" default:"1"`

	// RequestTimeout is applied to every outbound backend request
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// Optional overrides of the environment base URLs (staging, tests)
	ConfigURL  string `envconfig:"CONFIG_URL"`
	CodegenURL string `envconfig:"CODEGEN_URL"`

	// PushURL is the websocket endpoint for backend push messages, empty disables the listener
	PushURL string `envconfig:"PUSH_URL"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	BaseURL string `envconfig:"SERVER_URL" default:"http://localhost"`
	Port    string `envconfig:"SERVER_PORT" default:"8001"`
}

type DatabaseConfig struct {
	Path string `envconfig:"DB_PATH" default:"nextstep.db"`
}

var allowedLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func LoadConfig() (*Config, error) {
	// We ignore the error as the .env file is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process(envPrefix, &cfg.App); err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}
	if err := envconfig.Process(envPrefix, &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process(envPrefix, &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	if err := cfg.App.validate(); err != nil {
		return nil, err
	}

	cfg.Logger = setupLogger(cfg.App.Level())

	return cfg, nil
}

func (c *AppConfig) validate() error {
	if _, ok := allowedLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	switch c.Environment {
	case EnvironmentDev, EnvironmentAbnahme, EnvironmentProd:
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative: %s", c.RequestTimeout)
	}

	return nil
}

// Level returns the slog level for LogLevel, info when unknown
func (c *AppConfig) Level() slog.Level {
	if l, ok := allowedLogLevels[c.LogLevel]; ok {
		return l
	}
	return slog.LevelInfo
}

// Backend base URLs per environment

func (c *AppConfig) CodegenBaseURL() string {
	if c.CodegenURL != "" {
		return c.CodegenURL
	}
	switch c.Environment {
	case EnvironmentAbnahme:
		return "https://codegen-service-a.bag.admin.ch"
	case EnvironmentProd:
		return "https://codegen-service.bag.admin.ch"
	default:
		return "https://codegen-service-d.bag.admin.ch"
	}
}

// ConfigBaseURL is the "pt" host serving config, statistics and trace keys
func (c *AppConfig) ConfigBaseURL() string {
	if c.ConfigURL != "" {
		return c.ConfigURL
	}
	switch c.Environment {
	case EnvironmentAbnahme:
		return "https://www.pt-a.bfs.admin.ch"
	case EnvironmentProd:
		return "https://www.pt.bfs.admin.ch"
	default:
		return "https://www.pt-d.bfs.admin.ch"
	}
}

// PublishBaseURL is the "pt1" host accepting uploads
func (c *AppConfig) PublishBaseURL() string {
	switch c.Environment {
	case EnvironmentAbnahme:
		return "https://www.pt1-a.bfs.admin.ch"
	case EnvironmentProd:
		return "https://www.pt1.bfs.admin.ch"
	default:
		return "https://www.pt1-d.bfs.admin.ch"
	}
}

// pushOrigin is the static origin sent in the push websocket handshake
const pushOrigin = "https://cli.nextstep.local"

// NewPushConfig creates the websocket.Config for the push listener
func (c *AppConfig) NewPushConfig() (*websocket.Config, error) {
	if c.PushURL == "" {
		return nil, fmt.Errorf("push url is not configured")
	}
	return websocket.NewConfig(c.PushURL, pushOrigin)
}

// Utility methods

// setupLogger creates a new logger for the server application
func setupLogger(l slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     l,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source := a.Value.Any().(*slog.Source)
				a.Value = slog.StringValue(source.File + ":" + strconv.Itoa(source.Line))
			}
			return a
		},
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// HTTPURL returns the full HTTP URL of the info server
func (c *ServerConfig) HTTPURL() string {
	baseURL := strings.TrimSuffix(c.BaseURL, "/")
	if c.Port == "" || strings.Contains(c.BaseURL, "https://") { // On prod, we don't need to specify the port
		return baseURL
	}
	return fmt.Sprintf("%s:%s", baseURL, c.Port)
}
