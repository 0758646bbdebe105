package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// GetProgress fetches the state of a batch from its progress URI, which may
// be a site path or an absolute URL. method is GET or POST; empty means GET.
func (c *Client) GetProgress(ctx context.Context, uri, method string) (*Progress, error) {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("unsupported progress method %q", method)
	}

	body, err := c.do(ctx, method, uri, nil)
	if err != nil {
		return nil, err
	}

	var p Progress
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to parse progress response: %w", err)
	}

	return &p, nil
}
