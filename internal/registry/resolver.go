// Package registry resolves project API keys to Confluence credentials via
// the external project registry service.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vishkar/confluence-gateway/internal/apperr"
	"github.com/vishkar/confluence-gateway/internal/auth"
	"github.com/vishkar/confluence-gateway/internal/config"
)

// Credentials is the canonical credential record for one tenant. It is
// resolved once per inbound request and never cached.
type Credentials struct {
	BaseURL  string
	Username string
	APIToken string
	// SpaceKey is the tenant's optional default space.
	SpaceKey string
}

// fieldAliases maps each canonical credential field to the aliases the
// registry is known to use, in lookup order.
var fieldAliases = map[string][]string{
	"url":      {"baseUrl", "url", "host"},
	"username": {"email", "username", "user"},
	"apiToken": {"apiToken", "token"},
	"spaceKey": {"spaceKey", "space"},
}

// Resolver fetches tenant configuration from the project registry.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewResolver constructs a Resolver for the configured registry. When the
// registry requires its own bearer token, it rides in the client transport.
func NewResolver(cfg config.RegistryConfig, logger *slog.Logger) (*Resolver, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("registry: base URL required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	if cfg.AuthToken != "" {
		transport, err := auth.NewBearer(nil, cfg.AuthToken)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		httpClient.Transport = transport
	}

	return &Resolver{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type projectResponse struct {
	Project struct {
		Configs map[string]map[string]any `json:"configs"`
	} `json:"project"`
}

// Resolve looks up the project for apiKey and returns its Confluence
// credentials. A non-2xx registry response means the key is invalid; a
// project without a confluence config block is a configuration error.
func (r *Resolver) Resolve(ctx context.Context, apiKey string) (*Credentials, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperr.New(apperr.KindAuth, "registry: API key required")
	}

	endpoint := fmt.Sprintf("%s/api/project?apiKey=%s", r.baseURL, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("registry: create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := r.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, err, "registry: lookup failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		io.Copy(io.Discard, res.Body)
		return nil, apperr.New(apperr.KindAuth, "invalid API key or project not found")
	}

	var payload projectResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("registry: decode response: %w", err)
	}

	block, ok := payload.Project.Configs["confluence"]
	if !ok || block == nil {
		return nil, apperr.New(apperr.KindConfiguration, "confluence not configured for this project")
	}

	creds := &Credentials{
		BaseURL:  lookupAlias(block, "url"),
		Username: lookupAlias(block, "username"),
		APIToken: lookupAlias(block, "apiToken"),
		SpaceKey: lookupAlias(block, "spaceKey"),
	}

	if creds.BaseURL == "" {
		return nil, missingField("URL", "url")
	}
	if creds.Username == "" {
		return nil, missingField("username", "username")
	}
	if creds.APIToken == "" {
		return nil, missingField("API token", "apiToken")
	}

	creds.BaseURL = strings.TrimRight(creds.BaseURL, "/")

	return creds, nil
}

// lookupAlias returns the first non-empty string value among the canonical
// field's registered aliases.
func lookupAlias(block map[string]any, canonical string) string {
	for _, alias := range fieldAliases[canonical] {
		if v, ok := block[alias].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func missingField(label, canonical string) error {
	return apperr.New(apperr.KindConfiguration,
		"confluence %s not configured (expected %s)", label, strings.Join(fieldAliases[canonical], ", "))
}
