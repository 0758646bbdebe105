// element.go builds placeholder elements for the editing surface.
package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// PlaceholderClass marks placeholder elements in editor markup.
	PlaceholderClass = "media-element"

	attrFID          = "data-fid"
	attrDelta        = "data-delta"
	attrMediaElement = "data-media-element"

	viewModeClassPrefix  = "file-"
	alignmentClassPrefix = "media-wysiwyg-align-"
)

// ErrNoElement is returned when markup cannot host a placeholder.
var ErrNoElement = errors.New("markup contains no element")

// Element is a placeholder built by BuildElement.
type Element struct {
	FID   string
	Delta int
	Info  FileInfo

	sel *goquery.Selection
}

// Selection exposes the element for further DOM work.
func (e *Element) Selection() *goquery.Selection {
	return e.sel
}

// OuterHTML renders the element.
func (e *Element) OuterHTML() (string, error) {
	return goquery.OuterHtml(e.sel)
}

// BuildElement turns representative markup for a file into a placeholder
// carrying info, and registers the embed in the session's maps.
func (s *Session) BuildElement(markup string, info FileInfo) (*Element, error) {
	s.ensure()
	if info.FID == "" {
		return nil, errors.New("file info has no fid")
	}

	frag, err := parseFragment(markup)
	if err != nil {
		return nil, err
	}
	if frag.Children().Length() == 0 {
		// Plain text: wrap it so attributes have somewhere to live.
		if frag, err = parseFragment("<span>" + markup + "</span>"); err != nil {
			return nil, err
		}
	}
	el := frag.Children().First()
	if el.Length() == 0 {
		return nil, ErrNoElement
	}

	// Link wrappers are re-applied at render time.
	if goquery.NodeName(el) == "a" && el.Find("img").Length() > 0 {
		el = el.Children().First()
	}

	// Field-driven alt/title win over the attribute set.
	attrs := info.Attributes.Clone()
	found := s.Options.parseAttributeFields(info.Fields)
	if found.hasAlt() {
		attrs["alt"] = found.Alt
	}
	if found.hasTitle() {
		attrs["title"] = found.Title
	}
	for _, name := range s.Options.Mirrored() {
		if v := attrs[name]; v != "" {
			el.SetAttr(name, v)
		} else if _, ok := el.Attr(name); ok {
			el.RemoveAttr(name)
		}
	}
	info.Attributes = attrs

	fid := string(info.FID)
	src, _ := el.Attr("src")
	inner, err := el.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render element: %w", err)
	}
	s.Sources[fid] = Source{
		TagName:   goquery.NodeName(el),
		Src:       src,
		InnerHTML: inner,
	}

	if info.Type == "" {
		info.Type = TypeMedia
	}

	delta := s.Deltas.Assign(fid, parseDelta(el.Attr(attrDelta)))
	entry := &DataEntry{
		Type:     info.Type,
		FID:      info.FID,
		ViewMode: info.ViewMode,
		Fields:   info.Fields.Clone(),
	}
	if prev, ok := s.Entry(fid); ok {
		entry.FieldDeltas = prev.FieldDeltas
		entry.ViewModes = prev.ViewModes
	}
	if entry.FieldDeltas == nil {
		entry.FieldDeltas = make(map[int]Fields)
	}
	if entry.ViewModes == nil {
		entry.ViewModes = make(map[int]string)
	}
	entry.FieldDeltas[delta] = info.Fields.Clone()
	entry.ViewModes[delta] = info.ViewMode
	s.Data[fid] = entry

	el.SetAttr(attrDelta, strconv.Itoa(delta))
	el.SetAttr(attrFID, fid)
	el.SetAttr(attrMediaElement, "1")

	classes := []string{PlaceholderClass}
	if info.ViewMode != "" {
		removeClassPrefix(el, viewModeClassPrefix)
		classes = append(classes, viewModeClassPrefix+strings.ReplaceAll(info.ViewMode, "_", "-"))
	}
	removeClassPrefix(el, alignmentClassPrefix)
	if align := info.Fields.String("alignment"); align != "" {
		classes = append(classes, alignmentClassPrefix+align)
	}
	el.AddClass(classes...)

	info.LinkText = s.Options.overrideLinkTitle(info.Fields, info.LinkText)
	if info.LinkText.Set && info.LinkText.Text != "" && info.Fields.String("external_url") == "" {
		el.Find("a").SetHtml(info.LinkText.Text)
	}

	return &Element{FID: fid, Delta: delta, Info: info, sel: el}, nil
}

// Signature returns the tracked state of the element.
func (e *Element) Signature(opts Options) string {
	return signature(e.sel, opts)
}

// signature joins the allow-listed attributes, the placeholder bookkeeping
// attributes and the inner markup of sel.
func signature(sel *goquery.Selection, opts Options) string {
	names := append(opts.tracked(), attrFID, attrDelta, "class")
	var sb strings.Builder
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		v, ok := sel.Attr(name)
		if !ok {
			continue
		}
		sb.WriteString(name)
		sb.WriteString("=")
		sb.WriteString(v)
		sb.WriteString("\x1f")
	}
	inner, _ := sel.Html()
	sb.WriteString(inner)
	return sb.String()
}

func removeClassPrefix(sel *goquery.Selection, prefix string) {
	class, ok := sel.Attr("class")
	if !ok {
		return
	}
	var stale []string
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, prefix) {
			stale = append(stale, c)
		}
	}
	if len(stale) > 0 {
		sel.RemoveClass(stale...)
	}
}

// parseFragment parses markup as body content and returns a selection on a
// detached container holding the parsed nodes.
func parseFragment(markup string) (*goquery.Selection, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root).Selection, nil
}
