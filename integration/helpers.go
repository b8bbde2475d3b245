package integration

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vishkar/confluence-gateway/internal/config"
	"github.com/vishkar/confluence-gateway/internal/registry"
	"github.com/vishkar/confluence-gateway/internal/rpc"
	"github.com/vishkar/confluence-gateway/internal/web"
	"github.com/vishkar/confluence-gateway/pkg/logging"
)

// apiKey is the project key the fake registry accepts.
const apiKey = "pk_test_integration"

// stack is a fully wired gateway over fake registry and Confluence servers.
type stack struct {
	Gateway    *httptest.Server
	Registry   *httptest.Server
	Confluence *fakeConfluence
}

// newStack wires registry, backend, dispatcher, and router exactly as the
// serve command does, with both external services faked locally.
func newStack(t *testing.T) *stack {
	t.Helper()

	backend := newFakeConfluence(t)

	registrySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/project" || r.URL.Query().Get("apiKey") != apiKey {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"project not found"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"project": map[string]any{
				"configs": map[string]any{
					"confluence": map[string]any{
						"baseUrl":  backend.Server.URL,
						"email":    "svc@example.com",
						"apiToken": "secret",
						"spaceKey": "ENG",
					},
				},
			},
		})
	}))
	t.Cleanup(registrySrv.Close)

	logger := logging.NewWithWriter(testWriter{t}, "error")
	handler := rpc.NewHandler(resolverFor(t, registrySrv.URL, logger), rpc.HandlerOptions{
		JiraBaseURL: "https://jira.example.com",
		Version:     "test",
		Logger:      logger,
	})

	gateway := httptest.NewServer(web.Router(handler, "test", logger))
	t.Cleanup(gateway.Close)

	return &stack{Gateway: gateway, Registry: registrySrv, Confluence: backend}
}

func resolverFor(t *testing.T, registryURL string, logger *slog.Logger) *registry.Resolver {
	t.Helper()

	resolver, err := registry.NewResolver(config.RegistryConfig{BaseURL: registryURL}, logger)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

// fakeConfluence is a stateful single-page Confluence backend.
type fakeConfluence struct {
	Server *httptest.Server

	mu      sync.Mutex
	title   string
	body    string
	version int
}

func newFakeConfluence(t *testing.T) *fakeConfluence {
	t.Helper()

	f := &fakeConfluence{title: "Runbook", body: "<p>initial</p>", version: 1}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/content/500", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.pageJSONLocked())
	})
	mux.HandleFunc("PUT /rest/api/content/500", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Title   string `json:"title"`
			Version struct {
				Number int `json:"number"`
			} `json:"version"`
			Body struct {
				Storage struct {
					Value string `json:"value"`
				} `json:"storage"`
			} `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode page update: %v", err)
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if payload.Version.Number != f.version+1 {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"version conflict"}`))
			return
		}
		f.version = payload.Version.Number
		f.body = payload.Body.Storage.Value
		if payload.Title != "" {
			f.title = payload.Title
		}
		json.NewEncoder(w).Encode(f.pageJSONLocked())
	})
	mux.HandleFunc("GET /rest/api/space/ENG", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"key":"ENG","name":"Engineering"}`))
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *fakeConfluence) pageJSONLocked() map[string]any {
	return map[string]any{
		"id":      "500",
		"type":    "page",
		"title":   f.title,
		"version": map[string]int{"number": f.version},
		"body": map[string]any{
			"storage": map[string]string{"value": f.body, "representation": "storage"},
		},
	}
}

func (f *fakeConfluence) Body() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.body
}

func (f *fakeConfluence) Version() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

// testWriter routes log output through the test log so failures carry
// server-side context.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
