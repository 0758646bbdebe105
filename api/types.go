// Package api provides the client for the site's file-display service.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

// PaginatedResponse wraps paginated API responses.
type PaginatedResponse[T any] struct {
	Results []T   `json:"results"`
	Links   Links `json:"_links,omitempty"`
}

// Links contains pagination links.
type Links struct {
	Next string `json:"next,omitempty"`
}

// HasMore returns true if there are more results available.
func (p *PaginatedResponse[T]) HasMore() bool {
	return p.Links.Next != ""
}

// File is a managed file known to the site.
type File struct {
	FID      media.FID         `json:"fid"`
	Filename string            `json:"filename"`
	URI      string            `json:"uri"`
	URL      string            `json:"url"`
	Mime     string            `json:"mime"`
	Type     string            `json:"type"`
	Size     int64             `json:"filesize,omitempty"`
	Created  Time              `json:"created,omitempty"`
	Attrs    map[string]string `json:"attributes,omitempty"`
}

// IsImage reports whether the file renders as an image.
func (f *File) IsImage() bool {
	return f.Type == "image" || strings.HasPrefix(f.Mime, "image/")
}

// Source returns the representative element used to rebuild placeholders
// for the file.
func (f *File) Source() media.Source {
	if f.IsImage() {
		return media.Source{TagName: "img", Src: f.URL}
	}
	return media.Source{TagName: "span", InnerHTML: html.EscapeString(f.Filename)}
}

// ViewMode is a display mode the file can be rendered in.
type ViewMode struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// DisplayLabel returns the label, or a title-cased form of the machine name
// when the site sends none.
func (m ViewMode) DisplayLabel() string {
	if m.Label != "" {
		return m.Label
	}
	return cases.Title(language.English).String(strings.ReplaceAll(m.Name, "_", " "))
}

// FormattedMedia is the service's answer to a display-options request:
// the chosen options and the representative markup for the editor.
type FormattedMedia struct {
	// Type is the view mode the markup was rendered in.
	Type    string       `json:"type"`
	Options media.Fields `json:"options"`
	HTML    string       `json:"html"`
}

// Progress is one response of a batch progress endpoint.
type Progress struct {
	Status     json.RawMessage `json:"status"`
	Percentage json.RawMessage `json:"percentage"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// Failed reports whether the batch reported an error. The endpoint signals
// failure with a status of 0 or false.
func (p *Progress) Failed() bool {
	raw := bytes.TrimSpace(p.Status)
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	if string(raw) == "false" {
		return true
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		raw = []byte(strings.TrimSpace(s))
		if len(raw) == 0 {
			return true
		}
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	return err == nil && n == 0
}

// Percent returns the completion percentage when the response carries one
// between 0 and 100.
func (p *Progress) Percent() (float64, bool) {
	raw := bytes.TrimSpace(p.Percentage)
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		raw = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

// DataText returns the data payload as text: strings unquoted, anything else
// as raw JSON.
func (p *Progress) DataText() string {
	raw := bytes.TrimSpace(p.Data)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Time is a wrapper around time.Time for custom JSON parsing.
type Time struct {
	time.Time
}

// UnmarshalJSON accepts ISO 8601 strings and Unix timestamps.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)

	if s == "null" || s == `""` || s == "" {
		return nil
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		return nil
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.Unix(secs, 0).UTC()
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}

	t.Time = parsed
	return nil
}

// MarshalJSON formats time in ISO 8601 format.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return e.Message
}

// StatusCode returns the HTTP status of an API error, or 0 when err did not
// come from an error response.
func StatusCode(err error) int {
	var apiErr *ErrorResponse
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
