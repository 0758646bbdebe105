package session

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/media-filter-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/media-filter-cli/internal/store"
	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

const testMacro = `[[{"type":"media","fid":5,"view_mode":"full","fields":{},"attributes":{"alt":"x"}}]]`

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.yml")
}

// saveAttached saves a session that has attached one macro.
func saveAttached(t *testing.T, st *store.Store, label string) string {
	t.Helper()
	sess := media.NewSession(media.Options{})
	sess.RegisterSource("5", media.Source{TagName: "img", Src: "/files/x.jpg"})
	require.Equal(t, 1, sess.ReplaceTokens(testMacro).Replaced)

	id := store.NewID()
	require.NoError(t, st.Save(context.Background(), id, label, sess))
	return id
}

func TestRunList(t *testing.T) {
	st := openStore(t)
	id := saveAttached(t, st, "article.html")

	var out bytes.Buffer
	opts := &listOptions{noColor: true, stdout: &out, configPath: missingConfig(t)}
	require.NoError(t, runList(context.Background(), opts, st))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID  LABEL  TAGS  FILES  UPDATED", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], id+"  article.html  1  1  "), lines[1])
}

func TestRunList_Empty(t *testing.T) {
	st := openStore(t)

	var out bytes.Buffer
	require.NoError(t, runList(context.Background(), &listOptions{stdout: &out, configPath: missingConfig(t)}, st))
	assert.Equal(t, "No sessions found.\n", out.String())

	out.Reset()
	require.NoError(t, runList(context.Background(), &listOptions{output: "json", stdout: &out, configPath: missingConfig(t)}, st))
	assert.Equal(t, "[]\n", out.String())
}

func TestRunShow_Latest(t *testing.T) {
	st := openStore(t)
	id := saveAttached(t, st, "article.html")

	var out bytes.Buffer
	opts := &showOptions{output: "json", stdout: &out, configPath: missingConfig(t)}
	require.NoError(t, runShow(context.Background(), "", opts, st))

	var got struct {
		ID       string        `json:"id"`
		Label    string        `json:"label"`
		Tags     int           `json:"tags"`
		MaxDelta int           `json:"max_delta"`
		FileList []fileSummary `json:"file_list"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "article.html", got.Label)
	assert.Equal(t, 1, got.Tags)
	assert.Equal(t, 1, got.MaxDelta)
	require.Len(t, got.FileList, 1)
	assert.Equal(t, fileSummary{FID: "5", ViewMode: "full", Embeds: 1, Source: "img /files/x.jpg"}, got.FileList[0])
}

func TestRunShow_Table(t *testing.T) {
	st := openStore(t)
	id := saveAttached(t, st, "")

	var out bytes.Buffer
	opts := &showOptions{noColor: true, stdout: &out, configPath: missingConfig(t)}
	require.NoError(t, runShow(context.Background(), id, opts, st))

	got := out.String()
	assert.Contains(t, got, "ID: "+id)
	assert.NotContains(t, got, "Label:")
	assert.Contains(t, got, "Cached tags: 1")
	assert.Contains(t, got, "5  full  1  img /files/x.jpg")
}

func TestRunShow_NoSession(t *testing.T) {
	st := openStore(t)
	err := runShow(context.Background(), "", &showOptions{stdout: &bytes.Buffer{}, configPath: missingConfig(t)}, st)
	assert.ErrorIs(t, err, cmdutil.ErrNoSession)
}

func TestRunDelete_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		deleted bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
		{"other", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := openStore(t)
			id := saveAttached(t, st, "article.html")

			var out bytes.Buffer
			opts := &deleteOptions{
				noColor:    true,
				stdin:      strings.NewReader(tt.input),
				stdout:     &out,
				configPath: missingConfig(t),
			}
			require.NoError(t, runDelete(context.Background(), id, opts, st))
			assert.Contains(t, out.String(), "About to delete session: "+id+" (article.html, 1 tags)")

			_, err := st.Get(context.Background(), id)
			if tt.deleted {
				assert.ErrorIs(t, err, store.ErrNotFound)
				assert.Contains(t, out.String(), "Deleted session: "+id)
			} else {
				assert.NoError(t, err)
				assert.Contains(t, out.String(), "Deletion cancelled.")
			}
		})
	}
}

func TestRunDelete_ForceJSON(t *testing.T) {
	st := openStore(t)
	id := saveAttached(t, st, "")

	var out bytes.Buffer
	opts := &deleteOptions{force: true, output: "json", stdout: &out, configPath: missingConfig(t)}
	require.NoError(t, runDelete(context.Background(), id, opts, st))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "deleted", got["status"])
	assert.Equal(t, id, got["session_id"])
}

func TestRunDelete_NotFound(t *testing.T) {
	st := openStore(t)
	err := runDelete(context.Background(), "missing", &deleteOptions{force: true, configPath: missingConfig(t)}, st)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
