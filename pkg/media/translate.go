// translate.go converts content between stored macros and editor placeholders.
package media

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ReplaceTokens replaces every resolvable media macro in stored content with
// its placeholder markup.
//
// A macro with invalid JSON leaves the whole content unchanged. A macro whose
// file is neither in the tag cache nor in the source map is left in place for
// the user to resolve.
func (s *Session) ReplaceTokens(content string) *Result {
	s.ensure()
	result := &Result{Content: content}

	tokens := MediaMacros(content)
	infos := make([]*FileInfo, len(tokens))
	for i, tok := range tokens {
		info, err := ParseMacro(tok.Text)
		if err != nil {
			result.AddWarning("malformed media macro at offset %d: %v", tok.Position, err)
			return result
		}
		infos[i] = info
	}

	out := content
	for i, tok := range tokens {
		info := infos[i]

		var source string
		if entry, ok := s.Tags.Lookup(tok.Text); ok {
			if _, registered := s.Entry(entry.FID); registered {
				out = strings.ReplaceAll(out, tok.Text, entry.Markup)
				result.Replaced++
				continue
			}
			source = entry.Markup
		}

		if source == "" {
			if info.FID == "" {
				result.AddWarning("media macro at offset %d has no fid", tok.Position)
				continue
			}
			src, ok := s.Sources[string(info.FID)]
			if !ok {
				result.AddWarning("unknown file %s at offset %d", info.FID, tok.Position)
				continue
			}
			source = src.Markup()
		}

		el, err := s.BuildElement(source, *info)
		if err != nil {
			result.AddWarning("failed to build placeholder for file %s: %v", info.FID, err)
			continue
		}
		markup, err := el.OuterHTML()
		if err != nil {
			result.AddWarning("failed to render placeholder for file %s: %v", info.FID, err)
			continue
		}
		s.Tags.Put(tok.Text, TagEntry{Markup: markup, FID: el.FID, Signature: el.Signature(s.Options)})

		out = strings.ReplaceAll(out, tok.Text, markup)
		result.Replaced++
	}

	result.Content = out
	return result
}

// RestoreTokens replaces every placeholder element in editor markup with its
// macro. Bytes outside placeholders are copied through untouched, and a
// placeholder that cannot be resolved stays as markup.
func (s *Session) RestoreTokens(content string) *Result {
	s.ensure()
	result := &Result{}

	var out strings.Builder
	sc := &rawScanner{z: html.NewTokenizer(strings.NewReader(content))}
	for {
		tt, raw := sc.next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.WriteString(raw)
			continue
		}

		tok := sc.z.Token()
		if !isPlaceholderTag(tok) {
			out.WriteString(raw)
			continue
		}

		markup := raw
		if tt == html.StartTagToken && !voidElements[tok.Data] {
			markup += sc.captureUntilClose(tok.Data)
		}

		macro, err := s.restoreElement(markup)
		if err != nil {
			result.AddWarning("%v", err)
			out.WriteString(markup)
			continue
		}
		out.WriteString(macro)
		result.Replaced++
	}
	if sc.consumed < len(content) {
		out.WriteString(content[sc.consumed:])
	}

	result.Content = out.String()
	return result
}

// restoreElement turns the exact markup of one placeholder into a macro and
// remembers the pair.
func (s *Session) restoreElement(markup string) (string, error) {
	frag, err := parseFragment(markup)
	if err != nil {
		return "", err
	}
	el := frag.Children().First()
	if el.Length() == 0 {
		return "", ErrNoElement
	}
	fid, _ := el.Attr(attrFID)
	macro, ok := s.CreateMacro(el)
	if !ok {
		if fid == "" {
			return "", fmt.Errorf("placeholder without %s left as markup", attrFID)
		}
		return "", fmt.Errorf("placeholder for unregistered file %s left as markup", fid)
	}
	// Markup carrying another file's delta is not cached, so the next attach
	// rebuilds it with a fresh delta.
	if owner, ok := s.Deltas.Owner(parseDelta(el.Attr(attrDelta))); ok && owner != strings.TrimSpace(fid) {
		return macro, nil
	}
	s.Tags.Put(macro, TagEntry{Markup: markup, FID: strings.TrimSpace(fid), Signature: signature(el, s.Options)})
	return macro, nil
}

// Insert builds the placeholder for newly selected media and records its
// macro, returning the markup to insert into the editor.
func (s *Session) Insert(markup string, info FileInfo) (string, error) {
	el, err := s.BuildElement(markup, info)
	if err != nil {
		return "", err
	}
	out, err := el.OuterHTML()
	if err != nil {
		return "", fmt.Errorf("failed to render placeholder: %w", err)
	}
	if macro, ok := s.CreateMacro(el.Selection()); ok {
		s.Tags.Put(macro, TagEntry{Markup: out, FID: el.FID, Signature: el.Signature(s.Options)})
	}
	return out, nil
}

func isPlaceholderTag(tok html.Token) bool {
	for _, a := range tok.Attr {
		switch a.Key {
		case attrMediaElement:
			return true
		case "class":
			for _, c := range strings.Fields(a.Val) {
				if c == PlaceholderClass {
					return true
				}
			}
		}
	}
	return false
}

// rawScanner wraps a tokenizer and counts the input bytes it has consumed.
type rawScanner struct {
	z        *html.Tokenizer
	consumed int
}

func (sc *rawScanner) next() (html.TokenType, string) {
	tt := sc.z.Next()
	if tt == html.ErrorToken {
		return tt, ""
	}
	raw := string(sc.z.Raw())
	sc.consumed += len(raw)
	return tt, raw
}

// captureUntilClose returns the raw input up to and including the end tag
// matching an already consumed start tag. Unclosed elements run to the end
// of the input.
func (sc *rawScanner) captureUntilClose(name string) string {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tt, raw := sc.next()
		if tt == html.ErrorToken {
			break
		}
		sb.WriteString(raw)
		switch tt {
		case html.StartTagToken:
			if tag, _ := sc.z.TagName(); string(tag) == name {
				depth++
			}
		case html.EndTagToken:
			if tag, _ := sc.z.TagName(); string(tag) == name {
				depth--
			}
		}
	}
	return sb.String()
}
