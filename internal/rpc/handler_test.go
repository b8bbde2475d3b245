package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vishkar/confluence-gateway/internal/apperr"
	"github.com/vishkar/confluence-gateway/internal/registry"
)

// stubCredentials resolves every key to fixed credentials, or fails when
// resolveErr is set.
type stubCredentials struct {
	creds      *registry.Credentials
	resolveErr error
	lastKey    string
}

func (s *stubCredentials) Resolve(_ context.Context, apiKey string) (*registry.Credentials, error) {
	s.lastKey = apiKey
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.creds, nil
}

func postRPC(t *testing.T, h http.Handler, apiKey string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/mcp", bytes.NewReader([]byte(body)))
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeRPC(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var res Response
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return res
}

func TestDiscoveryMethodsNeedNoCredential(t *testing.T) {
	t.Parallel()

	h := NewHandler(&stubCredentials{}, HandlerOptions{ServerName: "confluence-gateway", Version: "2.0.0"})

	t.Run("initialize", func(t *testing.T) {
		t.Parallel()
		rec := postRPC(t, h, "", `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		res := decodeRPC(t, rec)
		result := res.Result.(map[string]any)
		if result["protocolVersion"] != "2024-11-05" {
			t.Errorf("unexpected protocol version %v", result["protocolVersion"])
		}
		info := result["serverInfo"].(map[string]any)
		if info["name"] != "confluence-gateway" || info["version"] != "2.0.0" {
			t.Errorf("unexpected server info %v", info)
		}
	})

	t.Run("tools list", func(t *testing.T) {
		t.Parallel()
		rec := postRPC(t, h, "", `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		res := decodeRPC(t, rec)
		tools := res.Result.(map[string]any)["tools"].([]any)
		if len(tools) != 32 {
			t.Errorf("expected 32 tools, got %d", len(tools))
		}
		names := make(map[string]bool, len(tools))
		for _, tool := range tools {
			names[tool.(map[string]any)["name"].(string)] = true
		}
		for _, want := range []string{"create_page", "upload_and_embed_attachment", "get_page_macros"} {
			if !names[want] {
				t.Errorf("tool %s missing from listing", want)
			}
		}
	})

	t.Run("ping", func(t *testing.T) {
		t.Parallel()
		rec := postRPC(t, h, "", `{"jsonrpc":"2.0","id":3,"method":"ping"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("initialized notification", func(t *testing.T) {
		t.Parallel()
		rec := postRPC(t, h, "", `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("notification response should have no body, got %s", rec.Body.String())
		}
	})
}

func TestInvalidEnvelope(t *testing.T) {
	t.Parallel()

	h := NewHandler(&stubCredentials{}, HandlerOptions{})

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   int
	}{
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: codeInvalidRequest},
		{name: "wrong jsonrpc version", body: `{"jsonrpc":"1.0","id":1,"method":"ping"}`, wantStatus: http.StatusBadRequest, wantCode: codeInvalidRequest},
		{name: "unknown method", body: `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, wantStatus: http.StatusBadRequest, wantCode: codeMethodNotFound},
		{name: "call without tool name", body: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{}}`, wantStatus: http.StatusBadRequest, wantCode: codeInvalidRequest},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := postRPC(t, h, "key-1", tc.body)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			res := decodeRPC(t, rec)
			if res.Error == nil || res.Error.Code != tc.wantCode {
				t.Errorf("error = %+v, want code %d", res.Error, tc.wantCode)
			}
		})
	}
}

func TestToolCallRequiresCredential(t *testing.T) {
	t.Parallel()

	h := NewHandler(&stubCredentials{}, HandlerOptions{})
	rec := postRPC(t, h, "", `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_spaces"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	res := decodeRPC(t, rec)
	if res.Error == nil || res.Error.Code != codeInvalidRequest {
		t.Errorf("error = %+v, want code %d", res.Error, codeInvalidRequest)
	}
}

func TestToolCallAcceptsBearerToken(t *testing.T) {
	t.Parallel()

	backend := newConfluenceStub(t)
	source := &stubCredentials{creds: testCredentials(backend.URL, "ENG")}
	h := NewHandler(source, HandlerOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/mcp",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_spaces"}}`))
	req.Header.Set("Authorization", "Bearer proj-key-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if source.lastKey != "proj-key-9" {
		t.Errorf("resolved key %q, want proj-key-9", source.lastKey)
	}
}

func TestUnknownToolName(t *testing.T) {
	t.Parallel()

	backend := newConfluenceStub(t)
	h := NewHandler(&stubCredentials{creds: testCredentials(backend.URL, "")}, HandlerOptions{})

	rec := postRPC(t, h, "key-1", `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"drop_database"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	res := decodeRPC(t, rec)
	if res.Error == nil || res.Error.Code != codeMethodNotFound {
		t.Errorf("error = %+v, want code %d", res.Error, codeMethodNotFound)
	}
	if !strings.Contains(res.Error.Message, "drop_database") {
		t.Errorf("message should name the tool: %s", res.Error.Message)
	}
}

func TestResolveFailureMapsToAuthError(t *testing.T) {
	t.Parallel()

	source := &stubCredentials{resolveErr: apperr.New(apperr.KindAuth, "registry: invalid API key or project not found")}
	h := NewHandler(source, HandlerOptions{})

	rec := postRPC(t, h, "bad-key", `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"get_spaces"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	res := decodeRPC(t, rec)
	if res.Error == nil || res.Error.Code != codeInvalidRequest {
		t.Errorf("error = %+v, want code %d", res.Error, codeInvalidRequest)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	t.Parallel()

	backend := newConfluenceStub(t)
	h := NewHandler(&stubCredentials{creds: testCredentials(backend.URL, "")}, HandlerOptions{})

	rec := postRPC(t, h, "key-1",
		`{"jsonrpc":"2.0","id":"req-7","method":"tools/call","params":{"name":"search","arguments":{"cql":"type = page"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	res := decodeRPC(t, rec)
	if string(res.ID) != `"req-7"` {
		t.Errorf("id not echoed: %s", res.ID)
	}
	result := res.Result.(map[string]any)
	if result["success"] != true || result["tool"] != "search" {
		t.Errorf("unexpected envelope %v", result)
	}
	if _, ok := result["result"]; !ok {
		t.Errorf("result member missing: %v", result)
	}
}

func TestSpaceKeyFallback(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		defaultSpace string
		args         string
		wantSpace    string
		wantErr      bool
	}{
		{name: "explicit argument wins", defaultSpace: "DEF", args: `{"spaceKey":"ARG","title":"T","content":"<p>b</p>"}`, wantSpace: "ARG"},
		{name: "credential default applies", defaultSpace: "DEF", args: `{"title":"T","content":"<p>b</p>"}`, wantSpace: "DEF"},
		{name: "missing everywhere fails", defaultSpace: "", args: `{"title":"T","content":"<p>b</p>"}`, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			backend := newConfluenceStub(t)
			h := NewHandler(&stubCredentials{creds: testCredentials(backend.URL, tc.defaultSpace)}, HandlerOptions{})

			rec := postRPC(t, h, "key-1",
				`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"create_page","arguments":`+tc.args+`}}`)

			if tc.wantErr {
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("status = %d, want 400", rec.Code)
				}
				res := decodeRPC(t, rec)
				if res.Error == nil || res.Error.Code != codeInvalidRequest {
					t.Fatalf("error = %+v", res.Error)
				}
				if !strings.Contains(res.Error.Message, "spaceKey") {
					t.Errorf("message should name spaceKey: %s", res.Error.Message)
				}
				return
			}

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
			}
			if got := backend.lastCreateSpace(); got != tc.wantSpace {
				t.Errorf("created in space %q, want %q", got, tc.wantSpace)
			}
		})
	}
}

func TestArgumentValidation(t *testing.T) {
	t.Parallel()

	backend := newConfluenceStub(t)
	h := NewHandler(&stubCredentials{creds: testCredentials(backend.URL, "ENG")}, HandlerOptions{})

	cases := []struct {
		name     string
		body     string
		wantWord string
	}{
		{
			name:     "update_page missing version",
			body:     `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"update_page","arguments":{"pageId":"1","title":"T","content":"c"}}}`,
			wantWord: "version",
		},
		{
			name:     "search missing cql",
			body:     `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search","arguments":{}}}`,
			wantWord: "cql",
		},
		{
			name:     "upload_document bad base64",
			body:     `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"upload_document","arguments":{"pageId":"1","file":{"name":"a.png","data":"%%%"}}}}`,
			wantWord: "base64",
		},
		{
			name:     "upload_and_embed_document empty inline file",
			body:     `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"upload_and_embed_document","arguments":{"pageId":"1","file":{"name":"","data":""}}}}`,
			wantWord: "file",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := postRPC(t, h, "key-1", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			res := decodeRPC(t, rec)
			if res.Error == nil || res.Error.Code != codeInvalidRequest {
				t.Fatalf("error = %+v", res.Error)
			}
			if !strings.Contains(res.Error.Message, tc.wantWord) {
				t.Errorf("message %q should mention %q", res.Error.Message, tc.wantWord)
			}
		})
	}
}

func TestBackendErrorMapsToInternal(t *testing.T) {
	t.Parallel()

	backend := newConfluenceStub(t)
	backend.failSearch = true
	h := NewHandler(&stubCredentials{creds: testCredentials(backend.URL, "")}, HandlerOptions{})

	rec := postRPC(t, h, "key-1",
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search","arguments":{"cql":"type = page"}}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	res := decodeRPC(t, rec)
	if res.Error == nil || res.Error.Code != codeInternalError {
		t.Errorf("error = %+v, want code %d", res.Error, codeInternalError)
	}
}

func TestPassthroughPreservesBackendPayload(t *testing.T) {
	t.Parallel()

	backend := newConfluenceStub(t)
	h := NewHandler(&stubCredentials{creds: testCredentials(backend.URL, "")}, HandlerOptions{})

	rec := postRPC(t, h, "key-1",
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_content_by_id","arguments":{"id":"100"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	res := decodeRPC(t, rec)
	inner := res.Result.(map[string]any)["result"].(map[string]any)
	// _links is not part of the typed content model; its survival proves
	// the backend response passed through verbatim.
	if _, ok := inner["_links"]; !ok {
		t.Errorf("backend-only field dropped: %v", inner)
	}
}
