package media

import (
	"regexp"
	"sort"
	"strings"
)

// Options configures placeholder construction and extraction.
type Options struct {
	// AllowedAttributes lists the attributes that are part of the
	// editor-visible display options. The value says whether the attribute
	// is mirrored between the macro and the placeholder; listed attributes
	// with false are tracked for cache invalidation only.
	AllowedAttributes map[string]bool `yaml:"wysiwyg_allowed_attributes,omitempty" json:"wysiwyg_allowed_attributes,omitempty"`

	// AltField and TitleField are field-name patterns (anchored at the start)
	// for the form fields that override the alt and title attributes.
	AltField   string `yaml:"img_alt_field,omitempty" json:"img_alt_field,omitempty"`
	TitleField string `yaml:"img_title_field,omitempty" json:"img_title_field,omitempty"`

	// DoLinkText captures the label of linked embeds into link_text.
	DoLinkText bool `yaml:"do_link_text,omitempty" json:"do_link_text,omitempty"`
}

const (
	DefaultAltField   = "field_file_image_alt_text"
	DefaultTitleField = "field_file_image_title_text"
)

// DefaultOptions returns the stock allow-list and field names.
func DefaultOptions() Options {
	return Options{
		AllowedAttributes: map[string]bool{
			"alt":                true,
			"title":              true,
			"height":             true,
			"width":              true,
			"hspace":             true,
			"vspace":             true,
			"border":             true,
			"align":              true,
			"style":              true,
			"id":                 true,
			"usemap":             true,
			"data-picture-group": true,
			"data-picture-align": true,
			"class":              false,
		},
		AltField:   DefaultAltField,
		TitleField: DefaultTitleField,
	}
}

// WithDefaults fills unset values from DefaultOptions.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.AllowedAttributes == nil {
		o.AllowedAttributes = def.AllowedAttributes
	}
	if o.AltField == "" {
		o.AltField = def.AltField
	}
	if o.TitleField == "" {
		o.TitleField = def.TitleField
	}
	return o
}

// Mirrored returns the mirrored attribute names, sorted.
func (o Options) Mirrored() []string {
	var names []string
	for name, mirror := range o.AllowedAttributes {
		if mirror {
			names = append(names, strings.ToLower(name))
		}
	}
	sort.Strings(names)
	return names
}

// tracked returns every allow-listed attribute name, sorted.
func (o Options) tracked() []string {
	names := make([]string, 0, len(o.AllowedAttributes))
	for name := range o.AllowedAttributes {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)
	return names
}

// attributeFields holds the alt/title values found among form fields.
type attributeFields struct {
	Alt        string
	AltField   string
	Title      string
	TitleField string
}

func (a attributeFields) hasAlt() bool   { return a.AltField != "" }
func (a attributeFields) hasTitle() bool { return a.TitleField != "" }

// parseAttributeFields finds the alt and title override fields. When several
// fields match, the last one in name order wins.
func (o Options) parseAttributeFields(fields Fields) attributeFields {
	var found attributeFields
	altRe := fieldPattern(o.AltField)
	titleRe := fieldPattern(o.TitleField)

	for _, name := range sortedKeys(fields) {
		if altRe != nil && altRe.MatchString(name) {
			found.Alt = fieldString(fields[name])
			found.AltField = name
		}
		if titleRe != nil && titleRe.MatchString(name) {
			found.Title = fieldString(fields[name])
			found.TitleField = name
		}
	}
	return found
}

// syncAttributesToFields copies alt/title attribute values into their
// override fields so edits made in the editor show up in the options form.
func (o Options) syncAttributesToFields(info *FileInfo) {
	if info.Attributes == nil {
		info.Attributes = Attributes{}
	}
	if info.Fields == nil {
		info.Fields = Fields{}
	}
	found := o.parseAttributeFields(info.Fields)

	if found.hasTitle() {
		if title := info.Attributes["title"]; title != found.Title {
			info.Fields[found.TitleField] = fieldValue(title)
		}
	}
	if found.hasAlt() {
		if alt := info.Attributes["alt"]; alt != found.Alt {
			info.Fields[found.AltField] = fieldValue(alt)
		}
	}
}

// overrideLinkTitle returns the title field value as link text when the user
// filled it in, and current otherwise.
func (o Options) overrideLinkTitle(fields Fields, current LinkText) LinkText {
	base := strings.Replace(o.TitleField, "field_", "", 1)
	if base == "" || fields == nil {
		return current
	}
	var name string
	for _, k := range sortedKeys(fields) {
		if strings.Contains(k, base) {
			name = k
		}
	}
	if name == "" {
		return current
	}
	if v := fieldString(fields[name]); v != "" {
		return NewLinkText(v)
	}
	return current
}

func fieldPattern(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile("^" + pattern)
	if err != nil {
		return regexp.MustCompile("^" + regexp.QuoteMeta(pattern))
	}
	return re
}

// fieldValue is the stored form of an attribute synced into a field: the
// text itself, or false when empty.
func fieldValue(s string) any {
	if s == "" {
		return false
	}
	return s
}
