package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"media-editor/internal/models"
)

// Config is read from the environment. Outside production a .env file in
// the working directory is loaded first.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8083"`

	// DatabaseURL selects Postgres for sessions; sessions stay in memory
	// when it is empty.
	DatabaseURL string `env:"DATABASE_URL"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"local"`
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8083"`
	AWSBucket   string `env:"AWS_BUCKET"`
	AWSRegion   string `env:"AWS_REGION" envDefault:"us-east-1"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// CourseFolder is the workspace folder of the course being authored.
	// Media URIs are relative to it.
	CourseFolder                string   `env:"COURSE_FOLDER" envDefault:"course"`
	ExternalStrategyProviderURL string   `env:"EXTERNAL_STRATEGY_PROVIDER_URL"`
	StrategyHandlers            []string `env:"STRATEGY_HANDLERS" envSeparator:","`

	// WorkspaceServiceURL points editors at a remote workspace service
	// instead of this process's own.
	WorkspaceServiceURL string `env:"WORKSPACE_SERVICE_URL"`

	// SessionIdleTimeout closes live sessions nobody has touched for this
	// long. Their saved state stays in the session store.
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	// Production injects env vars through infra (K8s secrets, etc.)
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Production() bool { return c.AppEnv == "production" }

// CheckProduction refuses settings that only make sense on a developer
// machine. Sessions kept in memory are lost on restart.
func (c *Config) CheckProduction() error {
	if !c.Production() {
		return nil
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required in production")
	}
	return nil
}

// ServerProperties are the values editors may look up by name.
func (c *Config) ServerProperties() map[string]string {
	return map[string]string{
		models.PropertyExternalStrategyProviderURL: c.ExternalStrategyProviderURL,
	}
}
