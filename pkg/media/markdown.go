package media

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// mdParser renders GFM tables and passes raw HTML (placeholders, embeds) through.
var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Markers stand in for macros while a converter runs. They contain nothing a
// markdown or HTML converter would escape.
const (
	markerPrefix = "MEDIAMACRO"
	markerSuffix = "END"
)

func formatMarker(id int) string {
	return markerPrefix + strconv.Itoa(id) + markerSuffix
}

// MarkdownToEditor renders markdown content to HTML with every [[...]] macro
// kept byte-for-byte. The result is ready for ReplaceTokens.
func MarkdownToEditor(markdown []byte) (string, error) {
	if len(markdown) == 0 {
		return "", nil
	}
	processed, macros := protectMacros(string(markdown))

	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(processed), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return restoreMacros(buf.String(), macros), nil
}

// EditorToMarkdown converts HTML content, typically the output of
// RestoreTokens, to markdown with every [[...]] macro kept byte-for-byte.
func EditorToMarkdown(content string) (string, error) {
	if content == "" {
		return "", nil
	}
	processed, macros := protectMacros(content)

	markdown, err := htmltomarkdown.ConvertString(processed)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(restoreMacros(markdown, macros)), nil
}

// protectMacros swaps each macro occurrence for a numbered marker.
func protectMacros(content string) (string, []string) {
	tokens := ScanMacros(content)
	if len(tokens) == 0 {
		return content, nil
	}
	var sb strings.Builder
	macros := make([]string, 0, len(tokens))
	last := 0
	for _, tok := range tokens {
		sb.WriteString(content[last:tok.Position])
		sb.WriteString(formatMarker(len(macros)))
		macros = append(macros, tok.Text)
		last = tok.Position + len(tok.Text)
	}
	sb.WriteString(content[last:])
	return sb.String(), macros
}

func restoreMacros(content string, macros []string) string {
	for id := len(macros) - 1; id >= 0; id-- {
		content = strings.Replace(content, formatMarker(id), macros[id], 1)
	}
	return content
}
