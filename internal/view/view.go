// Package view provides output formatting for mfl commands.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Format represents an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ValidFormats returns the accepted --output values.
func ValidFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatPlain)}
}

// ValidateFormat checks an --output value. Empty means the default.
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	for _, f := range ValidFormats() {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
}

// Renderer renders data in a specific format.
type Renderer struct {
	format    Format
	writer    io.Writer
	errWriter io.Writer
	noColor   bool
}

// NewRenderer creates a new renderer with the specified format.
func NewRenderer(format Format, noColor bool) *Renderer {
	if noColor {
		color.NoColor = true
	}
	return &Renderer{
		format:    format,
		writer:    os.Stdout,
		errWriter: os.Stderr,
		noColor:   noColor,
	}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// SetWriter sets the output writer.
func (r *Renderer) SetWriter(w io.Writer) {
	r.writer = w
}

// SetErrWriter sets the writer for warnings and progress.
func (r *Renderer) SetErrWriter(w io.Writer) {
	r.errWriter = w
}

// RenderTable renders data as a table.
func (r *Renderer) RenderTable(headers []string, rows [][]string) {
	if r.format == FormatJSON {
		r.renderTableAsJSON(headers, rows)
		return
	}

	if r.format == FormatPlain {
		r.renderTableAsPlain(headers, rows)
		return
	}

	// Print header
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(r.writer, "  ")
		}
		fmt.Fprint(r.writer, h)
	}
	fmt.Fprintln(r.writer)

	// Print rows
	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(r.writer, "  ")
			}
			fmt.Fprint(r.writer, val)
		}
		fmt.Fprintln(r.writer)
	}
}

func (r *Renderer) renderTableAsJSON(headers []string, rows [][]string) {
	_ = r.RenderJSON(rowMaps(headers, rows))
}

// rowMaps keys each row by its headers. Short rows omit the missing keys.
func rowMaps(headers []string, rows [][]string) []map[string]string {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				item[jsonKey(header)] = row[i]
			}
		}
		result = append(result, item)
	}
	return result
}

func (r *Renderer) renderTableAsPlain(headers []string, rows [][]string) {
	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(r.writer, "\t")
			}
			fmt.Fprint(r.writer, val)
		}
		fmt.Fprintln(r.writer)
	}
}

// RenderList renders one page of a paginated listing. JSON output wraps the
// rows with a has_more marker; other formats render a plain table.
func (r *Renderer) RenderList(headers []string, rows [][]string, hasMore bool) {
	if r.format != FormatJSON {
		r.RenderTable(headers, rows)
		return
	}

	_ = r.RenderJSON(struct {
		Results []map[string]string `json:"results"`
		HasMore bool                `json:"has_more"`
	}{rowMaps(headers, rows), hasMore})
}

func jsonKey(header string) string {
	return strings.ReplaceAll(strings.ToLower(header), " ", "_")
}

// RenderJSON renders an object as JSON.
func (r *Renderer) RenderJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.writer, string(data))
	return nil
}

// RenderText renders plain text.
func (r *Renderer) RenderText(text string) {
	fmt.Fprintln(r.writer, text)
}

// RenderRaw writes text exactly as given.
func (r *Renderer) RenderRaw(text string) {
	fmt.Fprint(r.writer, text)
}

// RenderKeyValue renders a key-value pair.
func (r *Renderer) RenderKeyValue(key, value string) {
	if r.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{jsonKey(key): value})
		fmt.Fprintln(r.writer, string(data))
		return
	}
	bold := color.New(color.Bold)
	bold.Fprintf(r.writer, "%s: ", key)
	fmt.Fprintln(r.writer, value)
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintln(r.writer, "✓ "+msg)
}

// Warning prints a warning to the error writer so it never mixes with
// converted content on stdout.
func (r *Renderer) Warning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintln(r.errWriter, "! "+msg)
}

// Info prints a dimmed status line to the error writer.
func (r *Renderer) Info(msg string) {
	dim := color.New(color.Faint)
	dim.Fprintln(r.errWriter, msg)
}

const progressWidth = 30

// Progress draws a progress bar on the error writer. Table output redraws
// the bar in place; other formats print one line per call.
func (r *Renderer) Progress(percent float64, message string) {
	pct := math.Max(0, math.Min(100, percent))
	filled := int(pct / 100 * progressWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled)

	line := fmt.Sprintf("[%s] %3.0f%%", bar, pct)
	if message != "" {
		line += "  " + message
	}

	if r.format == FormatTable {
		cyan := color.New(color.FgCyan)
		fmt.Fprint(r.errWriter, "\r\033[K")
		cyan.Fprint(r.errWriter, line)
		return
	}
	fmt.Fprintln(r.errWriter, line)
}

// EndProgress finishes an in-place progress bar.
func (r *Renderer) EndProgress() {
	if r.format == FormatTable {
		fmt.Fprintln(r.errWriter)
	}
}

// Truncate shortens s to at most maxLen runes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
