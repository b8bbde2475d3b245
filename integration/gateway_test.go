package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func callTool(t *testing.T, s *stack, key, tool string, args map[string]any) (*http.Response, map[string]any) {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": tool, "arguments": args},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.Gateway.URL+"/api/mcp", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { res.Body.Close() })

	var envelope map[string]any
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return res, envelope
}

func TestMacroLifecycleEndToEnd(t *testing.T) {
	t.Parallel()

	s := newStack(t)

	// Insert a macro, observe it via get_page_macros, then replace it.
	res, envelope := callTool(t, s, apiKey, "insert_macro", map[string]any{
		"pageId":     "500",
		"macroName":  "warning",
		"parameters": map[string]string{"title": "Heads up"},
		"body":       "<p>read this</p>",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("insert status = %d (%v)", res.StatusCode, envelope)
	}
	if s.Confluence.Version() != 2 {
		t.Errorf("version after insert = %d, want 2", s.Confluence.Version())
	}

	res, envelope = callTool(t, s, apiKey, "get_page_macros", map[string]any{"pageId": "500"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get macros status = %d", res.StatusCode)
	}
	inner := envelope["result"].(map[string]any)["result"].(map[string]any)
	if inner["count"].(float64) != 1 {
		t.Fatalf("macro count = %v, want 1", inner["count"])
	}

	res, _ = callTool(t, s, apiKey, "update_macro", map[string]any{
		"pageId":       "500",
		"oldMacroName": "warning",
		"newMacroName": "note",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", res.StatusCode)
	}
	body := s.Confluence.Body()
	if strings.Contains(body, `ac:name="warning"`) || !strings.Contains(body, `ac:name="note"`) {
		t.Errorf("macro not replaced: %s", body)
	}
	if s.Confluence.Version() != 3 {
		t.Errorf("version after update = %d, want 3", s.Confluence.Version())
	}
}

func TestSpaceKeyDefaultFromRegistry(t *testing.T) {
	t.Parallel()

	s := newStack(t)

	// No spaceKey argument; the registry's default space must apply.
	res, envelope := callTool(t, s, apiKey, "get_space", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%v)", res.StatusCode, envelope)
	}
	inner := envelope["result"].(map[string]any)["result"].(map[string]any)
	if inner["key"] != "ENG" {
		t.Errorf("resolved space %v, want ENG", inner["key"])
	}
}

func TestInvalidKeyRejectedByRegistry(t *testing.T) {
	t.Parallel()

	s := newStack(t)

	res, envelope := callTool(t, s, "pk_wrong", "get_space", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
	rpcErr := envelope["error"].(map[string]any)
	if rpcErr["code"].(float64) != -32600 {
		t.Errorf("code = %v, want -32600", rpcErr["code"])
	}
}

func TestJiraLinkEndToEnd(t *testing.T) {
	t.Parallel()

	s := newStack(t)

	res, _ := callTool(t, s, apiKey, "link_page_to_jira_issue", map[string]any{
		"pageId":   "500",
		"issueKey": "OPS-17",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(s.Confluence.Body(), `https://jira.example.com/browse/OPS-17`) {
		t.Errorf("issue link missing: %s", s.Confluence.Body())
	}
}

func TestDiscoveryThroughRouter(t *testing.T) {
	t.Parallel()

	s := newStack(t)

	res, err := http.Post(s.Gateway.URL+"/api/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer res.Body.Close()

	var envelope map[string]any
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	tools := envelope["result"].(map[string]any)["tools"].([]any)
	if len(tools) != 32 {
		t.Errorf("tool count = %d, want 32", len(tools))
	}
}
