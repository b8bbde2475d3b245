package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetSpaces retrieves Confluence spaces. params are forwarded verbatim as
// query parameters (limit, start, type, ...).
func (c *Client) GetSpaces(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	var raw json.RawMessage
	if err := c.Get(ctx, "/space?"+query.Encode(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetSpace retrieves a single space by key.
func (c *Client) GetSpace(ctx context.Context, spaceKey string) (json.RawMessage, error) {
	if spaceKey == "" {
		return nil, fmt.Errorf("confluence: space key required")
	}

	var raw json.RawMessage
	if err := c.Get(ctx, "/space/"+url.PathEscape(spaceKey), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetSpacePermissions retrieves the permission entries of a space.
func (c *Client) GetSpacePermissions(ctx context.Context, spaceKey string) (json.RawMessage, error) {
	if spaceKey == "" {
		return nil, fmt.Errorf("confluence: space key required")
	}

	var raw json.RawMessage
	if err := c.Get(ctx, "/space/"+url.PathEscape(spaceKey)+"/permission", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
