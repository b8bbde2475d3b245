package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vishkar/confluence-gateway/internal/apperr"
	"github.com/vishkar/confluence-gateway/internal/blob"
	"github.com/vishkar/confluence-gateway/internal/confluence"
	"github.com/vishkar/confluence-gateway/internal/registry"
	"github.com/vishkar/confluence-gateway/internal/transform"
)

// CredentialSource resolves a project API key into Confluence credentials.
type CredentialSource interface {
	Resolve(ctx context.Context, apiKey string) (*registry.Credentials, error)
}

// Handler serves the JSON-RPC endpoint. It holds no per-tenant state;
// credentials are resolved and a backend client built on every tools/call.
type Handler struct {
	creds       CredentialSource
	blobs       blob.Store
	jiraBaseURL string
	timeout     time.Duration
	serverName  string
	version     string
	tools       []mcp.Tool
	logger      *slog.Logger
}

// HandlerOptions configures a Handler. Zero values fall back to sensible
// defaults.
type HandlerOptions struct {
	BlobStore      blob.Store
	JiraBaseURL    string
	BackendTimeout time.Duration
	ServerName     string
	Version        string
	Logger         *slog.Logger
}

// NewHandler builds the dispatcher around a credential source.
func NewHandler(creds CredentialSource, opts HandlerOptions) *Handler {
	h := &Handler{
		creds:       creds,
		blobs:       opts.BlobStore,
		jiraBaseURL: opts.JiraBaseURL,
		timeout:     opts.BackendTimeout,
		serverName:  opts.ServerName,
		version:     opts.Version,
		tools:       Tools(),
		logger:      opts.Logger,
	}
	if h.blobs == nil {
		h.blobs = blob.NoopStore{}
	}
	if h.timeout <= 0 {
		h.timeout = 30 * time.Second
	}
	if h.serverName == "" {
		h.serverName = "confluence-gateway"
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "Invalid Request: body is not a JSON-RPC request")
		return
	}

	if req.JSONRPC != "2.0" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, `Invalid Request: jsonrpc must be "2.0"`)
		return
	}

	switch req.Method {
	case "initialize":
		writeResult(w, req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]string{"name": h.serverName, "version": h.version},
		})
	case "notifications/initialized":
		w.WriteHeader(http.StatusAccepted)
	case "tools/list":
		writeResult(w, req.ID, map[string]any{"tools": h.tools})
	case "ping":
		writeResult(w, req.ID, struct{}{})
	case "tools/call":
		h.handleToolCall(w, r, req)
	default:
		writeError(w, http.StatusBadRequest, req.ID, codeMethodNotFound, "Method not found: "+req.Method)
	}
}

func (h *Handler) handleToolCall(w http.ResponseWriter, r *http.Request, req Request) {
	if req.Params.Name == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "Invalid Request: tool name required in params")
		return
	}

	apiKey := clientAPIKey(r)
	if apiKey == "" {
		writeError(w, http.StatusUnauthorized, req.ID, codeInvalidRequest, "Unauthorized: API key required in X-API-Key header or Authorization bearer token")
		return
	}

	ctx := r.Context()
	creds, err := h.creds.Resolve(ctx, apiKey)
	if err != nil {
		h.writeToolError(w, req, err)
		return
	}

	client, err := confluence.NewClient(creds, h.timeout)
	if err != nil {
		h.writeToolError(w, req, apperr.Wrap(apperr.KindConfiguration, err, "invalid project credentials"))
		return
	}
	engine := transform.New(client, transform.Options{
		BlobStore:   h.blobs,
		JiraBaseURL: h.jiraBaseURL,
		Logger:      h.logger,
	})

	result, err := h.dispatch(ctx, client, engine, creds, req.Params)
	if err != nil {
		h.writeToolError(w, req, err)
		return
	}

	writeResult(w, req.ID, CallResult{Success: true, Tool: req.Params.Name, Result: result})
}

func (h *Handler) writeToolError(w http.ResponseWriter, req Request, err error) {
	kind := apperr.KindOf(err)
	code, status := errorMapping(kind)
	h.logger.Error("tool call failed",
		slog.String("tool", req.Params.Name),
		slog.Int("code", code),
		slog.Any("error", err))
	writeError(w, status, req.ID, code, err.Error())
}

// dispatch runs one tool. The switch is exhaustive over the registry;
// every other name is an unknown tool.
func (h *Handler) dispatch(ctx context.Context, client *confluence.Client, engine *transform.Engine, creds *registry.Credentials, params RequestParams) (any, error) {
	switch params.Name {
	case "get_spaces":
		a, err := decodeArgs[SpacesArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		return client.GetSpaces(ctx, a.Params)

	case "get_space":
		a, err := decodeArgs[SpaceArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		return client.GetSpace(ctx, key)

	case "get_space_permissions":
		a, err := decodeArgs[SpaceArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		return client.GetSpacePermissions(ctx, key)

	case "get_content_by_id":
		a, err := decodeArgs[ContentByIDArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		content, err := client.GetContentByID(ctx, a.ID, a.Expand)
		return passthrough(content, err)

	case "get_content_by_space_and_title":
		a, err := decodeArgs[ContentByTitleArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		list, err := client.GetContentBySpaceAndTitle(ctx, key, a.Title)
		return passthroughList(list, err)

	case "search":
		a, err := decodeArgs[SearchArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		return client.Search(ctx, a.CQL, a.Limit)

	case "create_page":
		a, err := decodeArgs[CreatePageArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		page, err := client.CreatePage(ctx, confluence.PageInput{
			SpaceKey: key,
			Title:    a.Title,
			Body:     a.Content,
			ParentID: a.ParentID,
		})
		return passthrough(page, err)

	case "update_page":
		a, err := decodeArgs[UpdatePageArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := client.UpdatePage(ctx, a.PageID, a.Title, a.Content, a.Version)
		return passthrough(page, err)

	case "get_page_children":
		a, err := decodeArgs[PageArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		return client.GetPageChildren(ctx, a.PageID)

	case "get_page_history":
		a, err := decodeArgs[PageHistoryArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		return client.GetPageHistory(ctx, a.PageID, a.Limit)

	case "get_pages_by_label":
		a, err := decodeArgs[PagesByLabelArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		return engine.GetPagesByLabel(ctx, key, a.Label, a.Limit)

	case "add_page_labels":
		a, err := decodeArgs[AddLabelsArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		return client.AddPageLabels(ctx, a.PageID, a.Labels)

	case "get_page_attachments":
		a, err := decodeArgs[PageArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		return client.GetPageAttachments(ctx, a.PageID)

	case "upload_document":
		a, err := decodeArgs[UploadDocumentArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		data, err := decodeFileData(a.File)
		if err != nil {
			return nil, err
		}
		list, err := client.UploadAttachment(ctx, a.PageID, a.File.Name, a.File.MimeType, data, a.Comment)
		return passthroughList(list, err)

	case "update_document":
		a, err := decodeArgs[UpdateDocumentArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		data, err := decodeFileData(a.File)
		if err != nil {
			return nil, err
		}
		return client.UpdateAttachment(ctx, a.PageID, a.AttachmentID, a.File.Name, a.File.MimeType, data, a.Comment)

	case "delete_document":
		a, err := decodeArgs[DeleteDocumentArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		if err := client.DeleteAttachment(ctx, a.AttachmentID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": true, "attachmentId": a.AttachmentID}, nil

	case "list_documents":
		a, err := decodeArgs[ListDocumentsArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		return client.ListContent(ctx, key, a.Type, a.Limit)

	case "embed_existing_attachment":
		a, err := decodeArgs[EmbedAttachmentArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := engine.EmbedExistingAttachment(ctx, a.PageID, a.AttachmentName, a.Width, a.Position)
		return passthrough(page, err)

	case "upload_and_embed_document", "upload_and_embed_attachment":
		a, err := decodeArgs[UploadEmbedArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		in := transform.UploadInput{
			PageID:   a.PageID,
			FileURL:  a.FileURL,
			Filename: a.Filename,
			Comment:  a.Comment,
			Width:    a.Width,
			Position: a.Position,
		}
		if a.File != nil {
			data, err := decodeFileData(*a.File)
			if err != nil {
				return nil, err
			}
			in.File = &transform.FileData{Name: a.File.Name, Data: data, MimeType: a.File.MimeType}
		}
		return engine.UploadAndEmbed(ctx, in)

	case "create_folder":
		a, err := decodeArgs[CreateFolderArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		page, err := engine.CreateFolder(ctx, key, a.Title, a.ParentID)
		return passthrough(page, err)

	case "get_folder_contents":
		a, err := decodeArgs[FolderContentsArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		list, err := engine.GetFolderContents(ctx, a.PageID, a.Expand)
		return passthroughList(list, err)

	case "move_page_to_folder":
		a, err := decodeArgs[MovePageArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := engine.MovePageToFolder(ctx, a.PageID, a.NewParentID, a.CurrentVersion)
		return passthrough(page, err)

	case "create_page_template":
		a, err := decodeArgs[CreateTemplateArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		page, err := engine.CreatePageTemplate(ctx, key, a.Name, a.Content, a.Description)
		return passthrough(page, err)

	case "get_page_templates":
		a, err := decodeArgs[TemplatesArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		return engine.GetPageTemplates(ctx, key)

	case "apply_page_template":
		a, err := decodeArgs[ApplyTemplateArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		key, err := fallbackSpaceKey(a.SpaceKey, creds)
		if err != nil {
			return nil, err
		}
		page, err := engine.ApplyPageTemplate(ctx, a.TemplateID, key, a.Title, a.ParentID)
		return passthrough(page, err)

	case "update_page_template":
		a, err := decodeArgs[UpdateTemplateArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := engine.UpdatePageTemplate(ctx, a.TemplateID, a.Name, a.Content, a.Version)
		return passthrough(page, err)

	case "insert_macro":
		a, err := decodeArgs[InsertMacroArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := engine.InsertMacro(ctx, a.PageID, a.MacroName, a.Parameters, a.Body)
		return passthrough(page, err)

	case "update_macro":
		a, err := decodeArgs[UpdateMacroArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := engine.UpdateMacro(ctx, a.PageID, a.OldMacroName, a.NewMacroName, a.Parameters)
		return passthrough(page, err)

	case "get_page_macros":
		a, err := decodeArgs[PageArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		return engine.GetPageMacros(ctx, a.PageID)

	case "link_page_to_jira_issue":
		a, err := decodeArgs[LinkJiraArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := engine.LinkPageToJiraIssue(ctx, a.PageID, a.IssueKey)
		return passthrough(page, err)

	case "insert_jira_macro":
		a, err := decodeArgs[InsertJiraMacroArgs](params.Arguments)
		if err != nil {
			return nil, err
		}
		page, err := engine.InsertJiraMacro(ctx, a.PageID, a.JQLQuery, a.DisplayOptions)
		return passthrough(page, err)

	default:
		return nil, apperr.New(apperr.KindUnknownTool, "Unknown tool: %s", params.Name)
	}
}

// clientAPIKey extracts the project API key from the X-API-Key header or an
// Authorization bearer token.
func clientAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// fallbackSpaceKey applies the argument-over-default precedence for
// space-scoped tools.
func fallbackSpaceKey(arg string, creds *registry.Credentials) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if creds.SpaceKey != "" {
		return creds.SpaceKey, nil
	}
	return "", apperr.New(apperr.KindValidation, "spaceKey required: provide in arguments or configure in project registry")
}

// decodeArgs unmarshals tool arguments and runs the struct's validation
// rules when it has any.
func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return args, apperr.Wrap(apperr.KindValidation, err, "invalid tool arguments")
		}
	}
	if v, ok := any(args).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return args, apperr.Wrap(apperr.KindValidation, err, "invalid tool arguments")
		}
	}
	return args, nil
}

// decodeFileData decodes the base64 payload of an inline file argument.
func decodeFileData(file FileArg) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(file.Data)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "file.data must be base64 encoded: %v", err)
	}
	return data, nil
}

// passthrough returns the backend's response verbatim when the decoded
// content kept it.
func passthrough(content *confluence.Content, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if len(content.Raw) > 0 {
		return content.Raw, nil
	}
	return content, nil
}

func passthroughList(list *confluence.ContentList, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if len(list.Raw) > 0 {
		return list.Raw, nil
	}
	return list, nil
}
