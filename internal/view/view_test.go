package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	for _, f := range append(ValidFormats(), "") {
		assert.NoError(t, ValidateFormat(f), f)
	}

	for _, f := range []string{"xml", "TABLE", "yaml"} {
		err := ValidateFormat(f)
		require.Error(t, err, f)
		assert.Contains(t, err.Error(), "invalid output format")
		assert.Contains(t, err.Error(), "table, json, plain")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"fits", "cat.jpg", 10, "cat.jpg"},
		{"exact length", "cat.jpg", 7, "cat.jpg"},
		{"ellipsis", "annual-report-2024.pdf", 12, "annual-re..."},
		{"tiny limit", "harbor.jpg", 3, "har"},
		{"counts runes", "Hafen bei Dämmerung", 10, "Hafen b..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen))
		})
	}
}

var (
	fileHeaders = []string{"FID", "FILENAME", "VIEW MODE"}
	fileRows    = [][]string{
		{"5", "harbor.jpg", "full"},
		{"12", "report.pdf", "teaser"},
	}
)

func TestRenderer_RenderTable(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatTable, "FID  FILENAME  VIEW MODE\n5  harbor.jpg  full\n12  report.pdf  teaser\n"},
		{FormatPlain, "5\tharbor.jpg\tfull\n12\treport.pdf\tteaser\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRenderer(tt.format, true)
			r.SetWriter(&buf)

			r.RenderTable(fileHeaders, fileRows)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderer_RenderTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	r.RenderTable(fileHeaders, append(fileRows, []string{"7"}))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, map[string]string{"fid": "5", "filename": "harbor.jpg", "view_mode": "full"}, got[0])
	assert.Equal(t, map[string]string{"fid": "7"}, got[2], "short rows omit missing columns")
}

func TestRenderer_EmptyTable(t *testing.T) {
	t.Run("table keeps headers", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(FormatTable, true)
		r.SetWriter(&buf)

		r.RenderTable(fileHeaders, nil)
		assert.Equal(t, "FID  FILENAME  VIEW MODE\n", buf.String())
	})

	t.Run("json is an empty array", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(FormatJSON, true)
		r.SetWriter(&buf)

		r.RenderTable(fileHeaders, nil)
		assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
	})
}

func TestRenderer_RenderList_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	r.RenderList([]string{"FID", "View Mode"}, [][]string{{"5", "full"}}, true)

	var got struct {
		Results []map[string]string `json:"results"`
		HasMore bool                `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.True(t, got.HasMore)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "full", got.Results[0]["view_mode"])
}

func TestRenderer_RenderList_Table(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatTable, true)
	r.SetWriter(&buf)

	r.RenderList([]string{"FID", "NAME"}, [][]string{{"5", "cat.jpg"}}, false)

	assert.Equal(t, "FID  NAME\n5  cat.jpg\n", buf.String())
}

func TestRenderer_RenderJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderJSON(map[string]any{"session": "01ABC", "replaced": 2}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "01ABC", got["session"])
	assert.Equal(t, float64(2), got["replaced"])

	assert.Error(t, r.RenderJSON(make(chan int)))
}

func TestRenderer_RenderKeyValue(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(FormatTable, true)
		r.SetWriter(&buf)

		r.RenderKeyValue("Highest delta", "3")
		assert.Equal(t, "Highest delta: 3\n", buf.String())
	})

	t.Run("json escapes values", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(FormatJSON, true)
		r.SetWriter(&buf)

		r.RenderKeyValue("Label", `say "cheese"`)
		assert.Equal(t, `{"label":"say \"cheese\""}`, strings.TrimSpace(buf.String()))
	})
}

func TestRenderer_Messages(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(FormatTable, true)
	r.SetWriter(&out)
	r.SetErrWriter(&errOut)

	r.RenderRaw("<p>no newline</p>")
	r.RenderText("")
	r.Success("Deleted session: 01ABC")
	r.Warning("unknown file 99")
	r.Info("session 01ABC: 2 replaced")

	assert.Equal(t, "<p>no newline</p>\n✓ Deleted session: 01ABC\n", out.String())
	assert.Equal(t, "! unknown file 99\nsession 01ABC: 2 replaced\n", errOut.String())
}

func TestRenderer_Progress(t *testing.T) {
	t.Run("plain prints lines", func(t *testing.T) {
		var errOut bytes.Buffer
		r := NewRenderer(FormatPlain, true)
		r.SetErrWriter(&errOut)

		r.Progress(50, "Processed 5 of 10")
		r.Progress(250, "")
		r.EndProgress()

		lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "["+strings.Repeat("#", 15)+strings.Repeat("-", 15)+"]  50%  Processed 5 of 10", lines[0])
		assert.Equal(t, "["+strings.Repeat("#", 30)+"] 100%", lines[1])
	})

	t.Run("table redraws in place", func(t *testing.T) {
		var errOut bytes.Buffer
		r := NewRenderer(FormatTable, true)
		r.SetErrWriter(&errOut)

		r.Progress(10, "Starting")
		r.EndProgress()

		output := errOut.String()
		assert.True(t, strings.HasPrefix(output, "\r"))
		assert.Contains(t, output, " 10%  Starting")
		assert.True(t, strings.HasSuffix(output, "\n"))
	})
}

func TestRenderer_Format(t *testing.T) {
	assert.Equal(t, FormatJSON, NewRenderer(FormatJSON, true).Format())
}
