package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	Image  ImageConfig
	Log    LogConfig

	// APIKey is the hosted image service key, read once at startup from
	// GEMINI_API_KEY. It is required: Load fails when it is absent.
	APIKey string
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
}

// ImageConfig holds generation defaults.
type ImageConfig struct {
	// Provider addresses the default backend, e.g. "imagen".
	Provider string
	// Model is the default model name within that provider.
	Model string
	// RefinePrompts enables the Gemini text-model prompt refiner.
	RefinePrompts bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// apiKeyEnv is the one required environment variable. It is read once at
// startup and the process fails fast when it is absent.
const apiKeyEnv = "GEMINI_API_KEY"

// Load reads configuration from an optional file and the environment.
// Env var overrides use prefix PIXELMINT_, e.g. PIXELMINT_SERVER_PORT.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("image.provider", "imagen")
	v.SetDefault("image.model", "imagen-3.0-generate-002")
	v.SetDefault("image.refine_prompts", false)
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PIXELMINT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pixelmint")
	}

	v.SetEnvPrefix("PIXELMINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if cfgPath != "" {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults and env cover everything.
	}

	apiKey, found := os.LookupEnv(apiKeyEnv)
	if !found || apiKey == "" {
		return Config{}, fmt.Errorf("%s environment variable is not set", apiKeyEnv)
	}

	cfg := Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Image: ImageConfig{
			Provider:      v.GetString("image.provider"),
			Model:         v.GetString("image.model"),
			RefinePrompts: v.GetBool("image.refine_prompts"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		APIKey: apiKey,
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultModel returns the configured backend address in the
// "provider/model" format the client expects.
func (i ImageConfig) DefaultModel() string {
	return i.Provider + "/" + i.Model
}
