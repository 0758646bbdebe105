package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ListFilesOptions contains options for listing files.
type ListFilesOptions struct {
	Limit  int
	Cursor string
	Type   string
}

// ListFiles returns managed files, newest first.
func (c *Client) ListFiles(ctx context.Context, opts *ListFilesOptions) (*PaginatedResponse[File], error) {
	params := url.Values{}
	params.Set("limit", "25")

	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Cursor != "" {
			params.Set("cursor", opts.Cursor)
		}
		if opts.Type != "" {
			params.Set("type", opts.Type)
		}
	}

	body, err := c.Get(ctx, "/media/api/files?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result PaginatedResponse[File]
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse files response: %w", err)
	}

	return &result, nil
}

// GetFile returns a single file by ID.
func (c *Client) GetFile(ctx context.Context, fid string) (*File, error) {
	path := fmt.Sprintf("/media/api/files/%s", url.PathEscape(fid))
	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("failed to parse file response: %w", err)
	}

	return &file, nil
}

// ListViewModes returns the display modes available for a file.
func (c *Client) ListViewModes(ctx context.Context, fid string) ([]ViewMode, error) {
	path := fmt.Sprintf("/media/api/files/%s/view-modes", url.PathEscape(fid))
	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var modes []ViewMode
	if err := json.Unmarshal(body, &modes); err != nil {
		return nil, fmt.Errorf("failed to parse view modes response: %w", err)
	}

	return modes, nil
}

// GetFormattedMedia renders a file in viewMode and returns the chosen
// display options with the representative markup.
func (c *Client) GetFormattedMedia(ctx context.Context, fid, viewMode string) (*FormattedMedia, error) {
	params := url.Values{}
	if viewMode != "" {
		params.Set("view_mode", viewMode)
	}
	path := fmt.Sprintf("/media/api/files/%s/format", url.PathEscape(fid))
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var formatted FormattedMedia
	if err := json.Unmarshal(body, &formatted); err != nil {
		return nil, fmt.Errorf("failed to parse format response: %w", err)
	}

	return &formatted, nil
}

// Ping checks that the service is reachable and the credentials are accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "/media/api/status")
	return err
}
