package config

import (
	"testing"
	"time"
)

func TestValidateRequiresRegistryURL(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected error for missing registry base URL")
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{Registry: RegistryConfig{BaseURL: "https://registry.example.com/"}}
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("unexpected log level %q", cfg.Server.LogLevel)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Backend.Timeout)
	}
	if cfg.Registry.BaseURL != "https://registry.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Registry.BaseURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFLUENCE_GATEWAY_REGISTRY_BASE_URL", "https://registry.example.com")
	t.Setenv("CONFLUENCE_GATEWAY_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Registry.BaseURL != "https://registry.example.com" {
		t.Errorf("unexpected registry base URL %q", cfg.Registry.BaseURL)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("unexpected log level %q", cfg.Server.LogLevel)
	}
}

func TestLoadBindsKeysWithoutDefaults(t *testing.T) {
	t.Setenv("CONFLUENCE_GATEWAY_REGISTRY_BASE_URL", "https://registry.example.com")
	t.Setenv("CONFLUENCE_GATEWAY_REGISTRY_AUTH_TOKEN", "svc-token")
	t.Setenv("CONFLUENCE_GATEWAY_JIRA_BASE_URL", "https://jira.example.com/")
	t.Setenv("CONFLUENCE_GATEWAY_BLOB_BUCKET", "staging-bucket")
	t.Setenv("CONFLUENCE_GATEWAY_BLOB_ENDPOINT", "https://blobs.example.com")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Registry.AuthToken != "svc-token" {
		t.Errorf("unexpected auth token %q", cfg.Registry.AuthToken)
	}
	if cfg.Jira.BaseURL != "https://jira.example.com" {
		t.Errorf("unexpected jira base URL %q", cfg.Jira.BaseURL)
	}
	if cfg.Blob.Bucket != "staging-bucket" {
		t.Errorf("unexpected blob bucket %q", cfg.Blob.Bucket)
	}
	if cfg.Blob.Endpoint != "https://blobs.example.com" {
		t.Errorf("unexpected blob endpoint %q", cfg.Blob.Endpoint)
	}
}
