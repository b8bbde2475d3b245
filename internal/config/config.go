package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the full gateway configuration loaded from file/env.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Registry RegistryConfig `mapstructure:"registry"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Jira     JiraConfig     `mapstructure:"jira"`
	Blob     BlobConfig     `mapstructure:"blob"`
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	LogLevel string `mapstructure:"log_level"`
}

// RegistryConfig points at the project registry that resolves API keys.
type RegistryConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AuthToken string `mapstructure:"auth_token"`
}

// BackendConfig holds options for outbound Confluence calls.
type BackendConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// JiraConfig carries the issue tracker base URL used when linking pages to
// issues. Deriving it from the Confluence host is unreliable, so it must be
// configured explicitly.
type JiraConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// BlobConfig describes the S3-compatible staging store for large uploads.
type BlobConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	// URLHost marks fetch URLs as staged blobs eligible for cleanup.
	URLHost string `mapstructure:"url_host"`
}

// Load reads configuration from the provided directory and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path != "" {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("confluence_gateway")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("backend.timeout", 30*time.Second)

	// AutomaticEnv alone does not feed Unmarshal; keys without a default
	// must be bound explicitly or env-only deployment silently loses them.
	for _, key := range []string{
		"registry.base_url",
		"registry.auth_token",
		"jira.base_url",
		"blob.endpoint",
		"blob.region",
		"blob.bucket",
		"blob.access_key",
		"blob.secret_key",
		"blob.url_host",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Registry.BaseURL == "" {
		return fmt.Errorf("config: registry.base_url is required")
	}

	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 30 * time.Second
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	c.Registry.BaseURL = strings.TrimRight(c.Registry.BaseURL, "/")
	c.Jira.BaseURL = strings.TrimRight(c.Jira.BaseURL, "/")

	return nil
}
