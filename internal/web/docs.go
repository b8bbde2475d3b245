package web

import (
	"fmt"
	"net/http"
)

// docsHandler serves a static HTML overview of the endpoint for people who
// open the RPC URL in a browser.
func docsHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, docsHTML, version)
	}
}

const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Confluence Gateway</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 860px; margin: 40px auto; padding: 0 20px; color: #24292f; line-height: 1.6; }
    h1 { border-bottom: 2px solid #0969da; padding-bottom: 8px; }
    h2 { color: #0969da; margin-top: 32px; }
    pre { background: #f6f8fa; padding: 16px; border-radius: 6px; overflow-x: auto; }
    code { font-family: ui-monospace, "SF Mono", Menlo, monospace; font-size: 0.9em; }
    table { border-collapse: collapse; width: 100%%; }
    td, th { border: 1px solid #d0d7de; padding: 6px 10px; text-align: left; }
  </style>
</head>
<body>
  <h1>Confluence Gateway <small>v%s</small></h1>
  <p>A multi-tenant JSON-RPC 2.0 gateway in front of the Confluence REST API.
  Send <code>POST</code> requests to this URL with your project API key.</p>

  <h2>Authentication</h2>
  <p>Pass your project API key in the <code>X-API-Key</code> header or as an
  <code>Authorization: Bearer</code> token. Keys are resolved against the
  project registry on every call; nothing is cached.</p>

  <h2>Request format</h2>
  <pre><code>{
  "jsonrpc": "2.0",
  "id": 1,
  "method": "tools/call",
  "params": {
    "name": "create_page",
    "arguments": {
      "spaceKey": "MYSPACE",
      "title": "My Page",
      "content": "&lt;h1&gt;Hello&lt;/h1&gt;&lt;p&gt;Storage-format XHTML, not Markdown.&lt;/p&gt;"
    }
  }
}</code></pre>

  <h2>Response format</h2>
  <pre><code>{
  "jsonrpc": "2.0",
  "id": 1,
  "result": { "success": true, "tool": "create_page", "result": { } }
}</code></pre>

  <h2>Discovery</h2>
  <p><code>initialize</code>, <code>tools/list</code>, and <code>ping</code>
  need no credentials. <code>tools/list</code> returns every tool with its
  input schema.</p>

  <h2>Errors</h2>
  <table>
    <tr><th>Code</th><th>HTTP</th><th>Meaning</th></tr>
    <tr><td>-32600</td><td>400 / 401</td><td>Malformed request, invalid arguments, or missing credentials</td></tr>
    <tr><td>-32601</td><td>400</td><td>Unknown method or tool</td></tr>
    <tr><td>-32603</td><td>500</td><td>Confluence error or internal failure</td></tr>
  </table>

  <p>See <a href="/api/howto">/api/howto</a> for a machine-readable guide and
  <a href="/api/openapi.json">/api/openapi.json</a> for the OpenAPI description.</p>
</body>
</html>
`

// howtoHandler returns the machine-readable usage guide.
func howtoHandler(version string) http.HandlerFunc {
	guide := map[string]any{
		"service":  ServiceName,
		"version":  version,
		"endpoint": "/api/mcp",
		"authentication": map[string]any{
			"methods": []string{
				"X-API-Key: {api_key}",
				"Authorization: Bearer {api_key}",
			},
			"how_to_get_key": []string{
				"Register your project in the project registry",
				"Configure Confluence credentials: url, email, api token, optional spaceKey",
				"Use the project's API key on every tools/call request",
			},
		},
		"rich_text_format": map[string]any{
			"name":      "Confluence Storage Format (XHTML)",
			"important": "Confluence uses XHTML storage format, NOT Markdown. Send HTML tags for formatting.",
			"supported_tags": map[string]string{
				"headers":         "<h1> through <h6>",
				"text_formatting": "<strong>, <em>, <u>, <s>",
				"lists":           "<ul><li></li></ul>, <ol><li></li></ol>",
				"links":           "<a href='url'>text</a>",
				"tables":          "<table><tr><th></th></tr><tr><td></td></tr></table>",
				"code":            "<code> inline, code structured-macro for blocks",
				"images":          "<ac:image><ri:attachment ri:filename='image.png'/></ac:image>",
				"macros":          "<ac:structured-macro ac:name='info'>...</ac:structured-macro>",
			},
		},
		"space_key_fallback": "Tools that take spaceKey fall back to the project's configured default space when the argument is omitted.",
		"versioning":         "update_page and related tools take the version number you last observed; the gateway submits the increment and Confluence rejects stale versions.",
		"example_request": map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"method":  "tools/call",
			"params": map[string]any{
				"name": "search",
				"arguments": map[string]any{
					"cql":   "space = MYSPACE AND type = page",
					"limit": 10,
				},
			},
		},
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, guide)
	}
}

// openAPIHandler serves a minimal OpenAPI description of the HTTP surface.
func openAPIHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(openAPIJSON))
}

const openAPIJSON = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Confluence Gateway",
    "description": "Multi-tenant JSON-RPC 2.0 gateway for the Confluence REST API",
    "version": "2.0.0"
  },
  "paths": {
    "/api/mcp": {
      "post": {
        "summary": "JSON-RPC 2.0 endpoint",
        "description": "Methods: initialize, tools/list, ping, notifications/initialized, tools/call",
        "security": [{"apiKey": []}, {"bearer": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["jsonrpc", "method"],
                "properties": {
                  "jsonrpc": {"type": "string", "enum": ["2.0"]},
                  "id": {},
                  "method": {"type": "string"},
                  "params": {
                    "type": "object",
                    "properties": {
                      "name": {"type": "string"},
                      "arguments": {"type": "object"}
                    }
                  }
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "JSON-RPC result envelope"},
          "400": {"description": "Invalid request, arguments, or tool name"},
          "401": {"description": "Missing or invalid API key"},
          "500": {"description": "Confluence error or internal failure"}
        }
      },
      "get": {
        "summary": "HTML documentation",
        "responses": {"200": {"description": "Documentation page"}}
      }
    },
    "/api/health": {
      "get": {
        "summary": "Health check",
        "responses": {"200": {"description": "Service health"}}
      }
    },
    "/api/howto": {
      "get": {
        "summary": "Machine-readable usage guide",
        "responses": {"200": {"description": "Usage guide"}}
      }
    }
  },
  "components": {
    "securitySchemes": {
      "apiKey": {"type": "apiKey", "in": "header", "name": "X-API-Key"},
      "bearer": {"type": "http", "scheme": "bearer"}
    }
  }
}
`
