// extract.go reads file info back out of placeholder elements.
package media

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractFileInfo rebuilds the macro body for a placeholder. It reports false
// when the element has no data-fid or the file was never registered in this
// session.
//
// The view mode and field overrides recorded for the element's delta replace
// the file's last-known ones, and alt/title attribute edits are synced back into their
// override fields, both in the result and in the session's data map.
func (s *Session) ExtractFileInfo(el *goquery.Selection) (*FileInfo, bool) {
	s.ensure()
	fid, ok := el.Attr(attrFID)
	fid = strings.TrimSpace(fid)
	if !ok || fid == "" {
		return nil, false
	}
	entry, ok := s.Entry(fid)
	if !ok {
		return nil, false
	}

	info := &FileInfo{
		Type:       entry.Type,
		FID:        entry.FID,
		ViewMode:   entry.ViewMode,
		Fields:     entry.Fields.Clone(),
		Attributes: Attributes{},
	}
	if info.Type == "" {
		info.Type = TypeMedia
	}
	if info.FID == "" {
		info.FID = FID(fid)
	}

	for _, name := range s.Options.Mirrored() {
		if v, ok := el.Attr(name); ok && v != "" {
			info.Attributes[name] = strings.ReplaceAll(v, "&quot;", `"`)
		}
	}

	if s.Options.DoLinkText {
		if a := el.Find("a:not(:has(img))").First(); a.Length() > 0 {
			if label, err := a.Html(); err == nil {
				info.LinkText = NewLinkText(label)
			}
		}
	}

	delta := parseDelta(el.Attr(attrDelta))
	if mode := entry.ViewModes[delta]; delta > 0 && mode != "" {
		info.ViewMode = mode
	}
	overridden := false
	if delta > 0 {
		if fields, ok := entry.FieldDeltas[delta]; ok && fields != nil {
			overridden = true
			info.Fields = fields.Clone()
			if format := info.Fields.String("format"); format != "" && info.ViewMode != "" {
				info.ViewMode = format
			}
		}
	}

	s.Options.syncAttributesToFields(info)

	if overridden {
		entry.FieldDeltas[delta] = info.Fields.Clone()
	} else {
		entry.Fields = info.Fields.Clone()
	}
	return info, true
}

// CreateMacro derives the [[...]] token for a placeholder.
func (s *Session) CreateMacro(el *goquery.Selection) (string, bool) {
	info, ok := s.ExtractFileInfo(el)
	if !ok {
		return "", false
	}
	if info.LinkText.Set {
		info.LinkText = s.Options.overrideLinkTitle(info.Fields, info.LinkText)
		info.LinkText.Text = escapeAngles(info.LinkText.Text)
	}
	macro, err := FormatMacro(info)
	if err != nil {
		return "", false
	}
	return macro, true
}

func escapeAngles(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
