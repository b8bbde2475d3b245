package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetContentByID retrieves content by ID with the given expand properties.
func (c *Client) GetContentByID(ctx context.Context, id string, expand []string) (*Content, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: content id required")
	}

	path := "/content/" + url.PathEscape(id)
	if len(expand) > 0 {
		path += "?expand=" + url.QueryEscape(strings.Join(expand, ","))
	}

	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeContent(raw)
}

// GetContentBySpaceAndTitle finds a page by space key and title.
func (c *Client) GetContentBySpaceAndTitle(ctx context.Context, spaceKey, title string) (*ContentList, error) {
	if spaceKey == "" {
		return nil, fmt.Errorf("confluence: space key required")
	}
	if title == "" {
		return nil, fmt.Errorf("confluence: title required")
	}

	query := url.Values{}
	query.Set("spaceKey", spaceKey)
	query.Set("title", title)
	query.Set("expand", "body.storage,version")

	var raw json.RawMessage
	if err := c.Get(ctx, "/content?"+query.Encode(), &raw); err != nil {
		return nil, err
	}
	return decodeContentList(raw)
}

// PageInput describes a page create request.
type PageInput struct {
	SpaceKey string
	Title    string
	Body     string
	ParentID string
	// Labels are attached via metadata at creation time.
	Labels []string
	// Description adds a plain-text description block (template pages).
	Description string
}

// CreatePage creates a page. The parent reference is included only when set;
// its absence makes the page a space root page.
func (c *Client) CreatePage(ctx context.Context, in PageInput) (*Content, error) {
	if in.SpaceKey == "" {
		return nil, fmt.Errorf("confluence: space key required")
	}
	if in.Title == "" {
		return nil, fmt.Errorf("confluence: title required")
	}

	payload := map[string]any{
		"type":  "page",
		"title": in.Title,
		"space": map[string]string{"key": in.SpaceKey},
		"body": map[string]any{
			"storage": map[string]string{
				"value":          in.Body,
				"representation": "storage",
			},
		},
	}

	if in.ParentID != "" {
		payload["ancestors"] = []map[string]string{{"id": in.ParentID}}
	}

	if len(in.Labels) > 0 {
		labels := make([]map[string]string, 0, len(in.Labels))
		for _, name := range in.Labels {
			labels = append(labels, map[string]string{"prefix": "global", "name": name})
		}
		payload["metadata"] = map[string]any{"labels": labels}
	}

	if in.Description != "" {
		payload["description"] = map[string]any{
			"plain": map[string]string{
				"value":          in.Description,
				"representation": "plain",
			},
		}
	}

	var raw json.RawMessage
	if err := c.Post(ctx, "/content", payload, &raw); err != nil {
		return nil, err
	}
	return decodeContent(raw)
}

// UpdatePage writes a new body and title for the page. version must be the
// version the caller last observed; the request carries version+1 and the
// backend rejects it if the page has moved on since the read.
func (c *Client) UpdatePage(ctx context.Context, id, title, body string, version int) (*Content, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}
	if title == "" {
		return nil, fmt.Errorf("confluence: title required")
	}
	if version <= 0 {
		return nil, fmt.Errorf("confluence: current version required")
	}

	payload := map[string]any{
		"version": map[string]int{"number": version + 1},
		"title":   title,
		"type":    "page",
		"body": map[string]any{
			"storage": map[string]string{
				"value":          body,
				"representation": "storage",
			},
		},
	}

	var raw json.RawMessage
	if err := c.Put(ctx, "/content/"+url.PathEscape(id), payload, &raw); err != nil {
		return nil, err
	}
	return decodeContent(raw)
}

// SetPageParent moves a page under a new ancestor. Same optimistic
// concurrency contract as UpdatePage.
func (c *Client) SetPageParent(ctx context.Context, id, newParentID string, currentVersion int) (*Content, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}
	if newParentID == "" {
		return nil, fmt.Errorf("confluence: new parent id required")
	}
	if currentVersion <= 0 {
		return nil, fmt.Errorf("confluence: current version required")
	}

	payload := map[string]any{
		"version":   map[string]int{"number": currentVersion + 1},
		"ancestors": []map[string]string{{"id": newParentID}},
	}

	var raw json.RawMessage
	if err := c.Put(ctx, "/content/"+url.PathEscape(id), payload, &raw); err != nil {
		return nil, err
	}
	return decodeContent(raw)
}

// GetPageChildren lists the direct child pages of a page.
func (c *Client) GetPageChildren(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}

	var raw json.RawMessage
	if err := c.Get(ctx, "/content/"+url.PathEscape(id)+"/child/page", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetChildPages lists child pages with expansion, page size 100. Folder
// contents are fetched this way since folders are ordinary pages.
func (c *Client) GetChildPages(ctx context.Context, id string, expand []string) (*ContentList, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}

	path := "/content/" + url.PathEscape(id) + "/child/page?limit=100"
	if len(expand) > 0 {
		path += "&expand=" + url.QueryEscape(strings.Join(expand, ","))
	}

	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeContentList(raw)
}

// GetPageHistory retrieves the version history of a page.
func (c *Client) GetPageHistory(ctx context.Context, id string, limit int) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}
	if limit <= 0 {
		limit = 10
	}

	path := "/content/" + url.PathEscape(id) + "/history?limit=" + strconv.Itoa(limit)

	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// AddPageLabels attaches global-prefixed labels to a page.
func (c *Client) AddPageLabels(ctx context.Context, id string, labels []string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("confluence: page id required")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("confluence: at least one label required")
	}

	payload := make([]map[string]string, 0, len(labels))
	for _, name := range labels {
		payload = append(payload, map[string]string{"prefix": "global", "name": name})
	}

	var raw json.RawMessage
	if err := c.Post(ctx, "/content/"+url.PathEscape(id)+"/label", payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListContent lists content of a space filtered by type. contentType
// defaults to "attachment", limit to 25.
func (c *Client) ListContent(ctx context.Context, spaceKey, contentType string, limit int) (json.RawMessage, error) {
	if spaceKey == "" {
		return nil, fmt.Errorf("confluence: space key required")
	}
	if contentType == "" {
		contentType = "attachment"
	}
	if limit <= 0 {
		limit = 25
	}

	query := url.Values{}
	query.Set("spaceKey", spaceKey)
	query.Set("type", contentType)
	query.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.Get(ctx, "/content?"+query.Encode(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
