// tokens.go scans stored content for [[...]] macro tokens.
package media

import "regexp"

var (
	// macroPattern matches a single-line [[...]] token, shortest match first.
	macroPattern = regexp.MustCompile(`\[\[.*?\]\]`)

	// mediaTypePattern is the cheap pre-filter applied before JSON decoding.
	mediaTypePattern = regexp.MustCompile(`"type"\s*:\s*"media"`)
)

// MacroToken is one [[...]] occurrence in stored content.
type MacroToken struct {
	Text     string // the full token, brackets included
	Position int    // byte offset in the scanned content
	IsMedia  bool   // declares "type":"media"
}

// ScanMacros returns every [[...]] token in content, in order of appearance.
func ScanMacros(content string) []MacroToken {
	locs := macroPattern.FindAllStringIndex(content, -1)
	tokens := make([]MacroToken, 0, len(locs))
	for _, loc := range locs {
		text := content[loc[0]:loc[1]]
		tokens = append(tokens, MacroToken{
			Text:     text,
			Position: loc[0],
			IsMedia:  mediaTypePattern.MatchString(text),
		})
	}
	return tokens
}

// MediaMacros returns the distinct media tokens in content, keeping the
// position of their first occurrence.
func MediaMacros(content string) []MacroToken {
	var out []MacroToken
	seen := make(map[string]bool)
	for _, tok := range ScanMacros(content) {
		if !tok.IsMedia || seen[tok.Text] {
			continue
		}
		seen[tok.Text] = true
		out = append(out, tok)
	}
	return out
}
