// Package transform implements the composite content operations built on
// top of the Confluence client: macro editing, attachment embedding, folder
// and template semantics. Every operation is a single read-transform-write
// cycle over one page body; version conflicts belong to the backend and are
// surfaced, never retried.
package transform

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vishkar/confluence-gateway/internal/blob"
	"github.com/vishkar/confluence-gateway/internal/confluence"
)

// Engine executes composite operations for one tenant. It is constructed
// per request around the request's Confluence client and holds no state.
type Engine struct {
	client      *confluence.Client
	blobs       blob.Store
	jiraBaseURL string
	fetchClient *http.Client
	logger      *slog.Logger
}

// Options configures process-wide collaborators shared by all engines.
type Options struct {
	BlobStore blob.Store
	// JiraBaseURL is the issue tracker base used by link_page_to_jira_issue.
	JiraBaseURL string
	// FetchClient retrieves remote files for upload_and_embed. Defaults to a
	// 30-second-timeout client.
	FetchClient *http.Client
	Logger      *slog.Logger
}

// New constructs an Engine around a tenant's Confluence client.
func New(client *confluence.Client, opts Options) *Engine {
	if opts.BlobStore == nil {
		opts.BlobStore = blob.NoopStore{}
	}
	if opts.FetchClient == nil {
		opts.FetchClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Engine{
		client:      client,
		blobs:       opts.BlobStore,
		jiraBaseURL: opts.JiraBaseURL,
		fetchClient: opts.FetchClient,
		logger:      opts.Logger,
	}
}

// readPage fetches the current body and version of a page, the first half of
// every read-modify-write cycle.
func (e *Engine) readPage(ctx context.Context, pageID string) (*confluence.Content, error) {
	return e.client.GetContentByID(ctx, pageID, []string{"body.storage", "version"})
}

// writePage persists a transformed body using the version observed by
// readPage. The client puts version+1 on the wire; a concurrent writer makes
// the backend reject this with a conflict the caller sees verbatim.
func (e *Engine) writePage(ctx context.Context, page *confluence.Content, newBody string) (*confluence.Content, error) {
	return e.client.UpdatePage(ctx, page.ID, page.Title, newBody, page.Version.Number)
}
