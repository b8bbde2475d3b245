package rpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vishkar/confluence-gateway/internal/registry"
)

func testCredentials(backendURL, spaceKey string) *registry.Credentials {
	return &registry.Credentials{
		BaseURL:  backendURL,
		Username: "svc@example.com",
		APIToken: "secret",
		SpaceKey: spaceKey,
	}
}

// confluenceStub fakes the handful of backend endpoints the dispatcher
// tests exercise.
type confluenceStub struct {
	*httptest.Server

	mu         sync.Mutex
	created    []map[string]any
	failSearch bool
}

func newConfluenceStub(t *testing.T) *confluenceStub {
	t.Helper()

	stub := &confluenceStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/space", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results":[{"key":"ENG","name":"Engineering"}],"size":1}`))
	})
	mux.HandleFunc("GET /rest/api/search", func(w http.ResponseWriter, _ *http.Request) {
		if stub.failSearch {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"message":"backend unavailable"}`))
			return
		}
		w.Write([]byte(`{"results":[],"size":0}`))
	})
	mux.HandleFunc("GET /rest/api/content/100", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"100","type":"page","title":"Doc","version":{"number":2},` +
			`"_links":{"webui":"/spaces/ENG/pages/100"}}`))
	})
	mux.HandleFunc("POST /rest/api/content", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode create: %v", err)
		}
		stub.mu.Lock()
		stub.created = append(stub.created, payload)
		stub.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"id": "300", "title": payload["title"], "version": map[string]int{"number": 1},
		})
	})

	stub.Server = httptest.NewServer(mux)
	t.Cleanup(stub.Close)
	return stub
}

func (s *confluenceStub) lastCreateSpace() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.created) == 0 {
		return ""
	}
	space, _ := s.created[len(s.created)-1]["space"].(map[string]any)
	key, _ := space["key"].(string)
	return key
}
