// Package media translates media macros in stored content to the
// placeholder elements an editor displays, and back.
//
// A Session carries the state of one editing session: the macro to markup
// cache, the file info of every embedded file, representative markup used to
// rebuild placeholders, and the delta assigned to each embedding.
package media

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Session holds the lookup state of one editing session: the tag cache, the
// data and source maps, and the delta tracker. A Session is not safe for
// concurrent use; attach and detach of one editor never overlap.
type Session struct {
	Options Options `json:"-"`

	Tags    *TagCache             `json:"tags"`
	Data    map[string]*DataEntry `json:"data"`
	Sources map[string]Source     `json:"sources"`
	Deltas  *DeltaTracker         `json:"deltas"`
}

// DataEntry is the last-known info of a file, with the field overrides and
// view mode of each of its embeds keyed by delta.
type DataEntry struct {
	Type        string         `json:"type"`
	FID         FID            `json:"fid"`
	ViewMode    string         `json:"view_mode,omitempty"`
	Fields      Fields         `json:"fields"`
	FieldDeltas map[int]Fields `json:"field_deltas"`
	ViewModes   map[int]string `json:"view_modes,omitempty"`
}

// Source is enough of a rendered element to rebuild a placeholder for a
// macro that is no longer in the tag cache.
type Source struct {
	TagName   string `json:"tag_name"`
	Src       string `json:"src,omitempty"`
	InnerHTML string `json:"inner_html,omitempty"`
}

// Markup renders the source as a bare element.
func (s Source) Markup() string {
	tag := strings.ToLower(s.TagName)
	if tag == "" {
		tag = "span"
	}
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(tag)
	if s.Src != "" {
		sb.WriteString(` src="`)
		sb.WriteString(html.EscapeString(s.Src))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	if voidElements[tag] {
		return sb.String()
	}
	sb.WriteString(s.InnerHTML)
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteString(">")
	return sb.String()
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	s := &Session{Options: opts.WithDefaults()}
	s.ensure()
	return s
}

// LoadSession decodes a session saved with json.Marshal.
func LoadSession(data []byte, opts Options) (*Session, error) {
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	s.Options = opts.WithDefaults()
	s.ensure()
	return s, nil
}

// RegisterSource records how to rebuild placeholders for fid.
func (s *Session) RegisterSource(fid string, src Source) {
	s.ensure()
	s.Sources[fid] = src
}

// HasSource reports whether a placeholder for fid can be rebuilt.
func (s *Session) HasSource(fid string) bool {
	_, ok := s.Sources[fid]
	return ok
}

// Entry returns the data-map entry for fid.
func (s *Session) Entry(fid string) (*DataEntry, bool) {
	e, ok := s.Data[fid]
	return e, ok && e != nil
}

func (s *Session) ensure() {
	if s.Options.AllowedAttributes == nil {
		s.Options = s.Options.WithDefaults()
	}
	if s.Tags == nil {
		s.Tags = NewTagCache()
	}
	if s.Data == nil {
		s.Data = make(map[string]*DataEntry)
	}
	if s.Sources == nil {
		s.Sources = make(map[string]Source)
	}
	if s.Deltas == nil {
		s.Deltas = NewDeltaTracker()
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}
