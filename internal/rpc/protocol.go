// Package rpc implements the JSON-RPC 2.0 tool-call protocol over HTTP.
// Discovery methods are served without credentials; tools/call resolves a
// per-request credential and dispatches over a closed tool registry.
package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/vishkar/confluence-gateway/internal/apperr"
)

// protocolVersion is the handshake version reported by initialize.
const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes used by the dispatcher.
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

// Request is the inbound JSON-RPC envelope. The id is kept raw so string
// and numeric ids echo back unchanged.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  RequestParams   `json:"params"`
}

// RequestParams carries the tool name and its arguments for tools/call.
// Arguments stay raw until the dispatcher knows which tool they belong to.
type RequestParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Response is the outbound JSON-RPC envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is the JSON-RPC error member.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CallResult is the result envelope for a successful tools/call.
type CallResult struct {
	Success bool   `json:"success"`
	Tool    string `json:"tool"`
	Result  any    `json:"result"`
}

// errorMapping translates an error kind into a JSON-RPC code and HTTP
// status.
func errorMapping(kind apperr.Kind) (code, status int) {
	switch kind {
	case apperr.KindAuth:
		return codeInvalidRequest, http.StatusUnauthorized
	case apperr.KindConfiguration, apperr.KindValidation:
		return codeInvalidRequest, http.StatusBadRequest
	case apperr.KindUnknownTool:
		return codeMethodNotFound, http.StatusBadRequest
	default:
		return codeInternalError, http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	writeResponse(w, http.StatusOK, Response{JSONRPC: "2.0", ID: normalizeID(id), Result: result})
}

func writeError(w http.ResponseWriter, status int, id json.RawMessage, code int, message string) {
	writeResponse(w, status, Response{
		JSONRPC: "2.0",
		ID:      normalizeID(id),
		Error:   &ErrorObject{Code: code, Message: message},
	})
}

func writeResponse(w http.ResponseWriter, status int, res Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(res)
}

// normalizeID substitutes an explicit null for an absent id so the error
// envelope always carries the member.
func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
