package transform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vishkar/confluence-gateway/internal/confluence"
)

// templateLabel marks a page as a template. Template identity is page
// identity plus this convention; there is no separate storage.
const templateLabel = "template"

// CreatePageTemplate creates a template page: an ordinary page carrying the
// template label and an optional plain-text description.
func (e *Engine) CreatePageTemplate(ctx context.Context, spaceKey, name, content, description string) (*confluence.Content, error) {
	return e.client.CreatePage(ctx, confluence.PageInput{
		SpaceKey:    spaceKey,
		Title:       name,
		Body:        content,
		Labels:      []string{templateLabel},
		Description: description,
	})
}

// GetPageTemplates lists the template pages of a space via a label search.
func (e *Engine) GetPageTemplates(ctx context.Context, spaceKey string) (json.RawMessage, error) {
	cql := fmt.Sprintf("space = %q AND label = %q", spaceKey, templateLabel)
	return e.client.Search(ctx, cql, 50)
}

// ApplyPageTemplate creates a new page whose initial body is the template's
// current body.
func (e *Engine) ApplyPageTemplate(ctx context.Context, templateID, spaceKey, title, parentID string) (*confluence.Content, error) {
	template, err := e.client.GetContentByID(ctx, templateID, []string{"body.storage"})
	if err != nil {
		return nil, err
	}

	return e.client.CreatePage(ctx, confluence.PageInput{
		SpaceKey: spaceKey,
		Title:    title,
		Body:     template.Body.Storage.Value,
		ParentID: parentID,
	})
}

// UpdatePageTemplate rewrites a template page. Same contract as a page
// update.
func (e *Engine) UpdatePageTemplate(ctx context.Context, templateID, name, content string, version int) (*confluence.Content, error) {
	return e.client.UpdatePage(ctx, templateID, name, content, version)
}

// GetPagesByLabel lists the pages of a space carrying a label. limit
// defaults to 25.
func (e *Engine) GetPagesByLabel(ctx context.Context, spaceKey, label string, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 25
	}
	cql := fmt.Sprintf("space = %q AND label = %q", spaceKey, label)
	return e.client.Search(ctx, cql, limit)
}
