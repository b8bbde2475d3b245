package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Search performs a CQL search across content. limit defaults to 10.
func (c *Client) Search(ctx context.Context, cql string, limit int) (json.RawMessage, error) {
	if cql == "" {
		return nil, fmt.Errorf("confluence: cql required")
	}
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("cql", cql)
	query.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.Get(ctx, "/search?"+query.Encode(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
