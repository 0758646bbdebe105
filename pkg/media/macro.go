// macro.go defines the JSON media macro and its encoding.
package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	macroOpen  = "[["
	macroClose = "]]"

	// TypeMedia is the only macro type this package translates.
	TypeMedia = "media"
)

// FileInfo is the decoded body of a media macro.
type FileInfo struct {
	Type       string     `json:"type"`
	FID        FID        `json:"fid"`
	ViewMode   string     `json:"view_mode,omitempty"`
	Fields     Fields     `json:"fields"`
	LinkText   LinkText   `json:"link_text"`
	Attributes Attributes `json:"attributes"`
}

// FID is a file identifier. Macros carry it either as a number or as a
// numeric string; it is written back as a number whenever it is numeric.
type FID string

// MarshalJSON implements json.Marshaler.
func (f FID) MarshalJSON() ([]byte, error) {
	if isJSONInteger(string(f)) {
		return []byte(f), nil
	}
	return encodeJSON(string(f))
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FID(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid fid %s", string(data))
		}
		*f = FID(n.String())
	}
	return nil
}

func isJSONInteger(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LinkText is the optional label of a linked embed. It encodes as false when
// unset.
type LinkText struct {
	Text string
	Set  bool
}

// NewLinkText returns a set LinkText.
func NewLinkText(text string) LinkText {
	return LinkText{Text: text, Set: true}
}

// MarshalJSON implements json.Marshaler.
func (l LinkText) MarshalJSON() ([]byte, error) {
	if !l.Set {
		return []byte("false"), nil
	}
	return encodeJSON(l.Text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LinkText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		// false, null and anything else mean "no label"
		*l = LinkText{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = NewLinkText(s)
	return nil
}

// Fields maps form-field names to the values chosen in the display options
// form.
type Fields map[string]any

// MarshalJSON implements json.Marshaler. A nil map encodes as {}.
func (f Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return encodeJSON(map[string]any(f))
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are kept as json.Number
// so they re-encode exactly, and an empty array (what PHP emits for an empty
// map) decodes as an empty map.
func (f *Fields) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isEmptyArrayOrNull(data) {
		*f = Fields{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*f = Fields(m)
	return nil
}

// Clone returns a deep copy of the fields.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

// String returns the named field as a string. Missing, null and false values
// are empty.
func (f Fields) String(name string) string {
	return fieldString(f[name])
}

// Attributes maps HTML attribute names to values.
type Attributes map[string]string

// MarshalJSON implements json.Marshaler. A nil map encodes as {}.
func (a Attributes) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return encodeJSON(map[string]string(a))
}

// UnmarshalJSON implements json.Unmarshaler. Scalar values of any JSON type
// are accepted and kept in their textual form; false and null are dropped.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isEmptyArrayOrNull(data) {
		*a = Attributes{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out := make(Attributes, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case map[string]any, []any:
			return fmt.Errorf("attribute %q: expected a scalar value", k)
		default:
			if s := fieldString(v); s != "" {
				out[k] = s
			}
		}
	}
	*a = out
	return nil
}

// Clone returns a copy of the attributes; nil becomes an empty map.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ParseMacro decodes a [[...]] token.
func ParseMacro(token string) (*FileInfo, error) {
	body := strings.TrimSpace(token)
	body = strings.TrimPrefix(body, macroOpen)
	body = strings.TrimSuffix(body, macroClose)

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var info FileInfo
	if err := dec.Decode(&info); err != nil {
		return nil, fmt.Errorf("invalid macro JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid macro JSON: trailing data")
	}
	return &info, nil
}

// FormatMacro encodes info as a [[...]] token.
func FormatMacro(info *FileInfo) (string, error) {
	data, err := encodeJSON(info)
	if err != nil {
		return "", fmt.Errorf("failed to encode macro: %w", err)
	}
	return macroOpen + string(data) + macroClose, nil
}

// encodeJSON marshals v without HTML escaping, so <, > and & survive as-is
// inside macros.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isEmptyArrayOrNull(data []byte) bool {
	if string(data) == "null" || len(data) == 0 {
		return true
	}
	if len(data) < 2 || data[0] != '[' || data[len(data)-1] != ']' {
		return false
	}
	return len(bytes.TrimSpace(data[1:len(data)-1])) == 0
}

// fieldString renders a decoded JSON scalar as text.
func fieldString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
