package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

func TestClient_ListFiles(t *testing.T) {
	testData := loadTestData(t, "files.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/api/files", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(testData)
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	result, err := client.ListFiles(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.True(t, result.HasMore())

	img := result.Results[0]
	assert.Equal(t, media.FID("5"), img.FID)
	assert.Equal(t, "harbor.jpg", img.Filename)
	assert.Equal(t, int64(245678), img.Size)
	assert.True(t, img.IsImage())
	assert.Equal(t, 2023, img.Created.Year())

	doc := result.Results[1]
	assert.Equal(t, media.FID("12"), doc.FID)
	assert.False(t, doc.IsImage())
	assert.Equal(t, 2024, doc.Created.Year())
}

func TestClient_ListFiles_WithOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "image", r.URL.Query().Get("type"))
		assert.Equal(t, "abc", r.URL.Query().Get("cursor"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	result, err := client.ListFiles(context.Background(), &ListFilesOptions{Limit: 50, Type: "image", Cursor: "abc"})
	require.NoError(t, err)
	assert.False(t, result.HasMore())
}

func TestClient_GetFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/api/files/5", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"fid": 5, "filename": "harbor.jpg", "url": "/files/harbor.jpg", "mime": "image/jpeg"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	file, err := client.GetFile(context.Background(), "5")

	require.NoError(t, err)
	assert.Equal(t, media.FID("5"), file.FID)
	assert.Equal(t, "/files/harbor.jpg", file.URL)
	assert.True(t, file.IsImage())
}

func TestClient_GetFile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "File 9 not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	_, err := client.GetFile(context.Background(), "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File 9 not found")
}

func TestClient_ListViewModes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/api/files/5/view-modes", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"name": "default", "label": "Default"}, {"name": "teaser", "label": "Teaser"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	modes, err := client.ListViewModes(context.Background(), "5")

	require.NoError(t, err)
	require.Len(t, modes, 2)
	assert.Equal(t, ViewMode{Name: "teaser", Label: "Teaser"}, modes[1])
}

func TestClient_GetFormattedMedia(t *testing.T) {
	testData := loadTestData(t, "format.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/api/files/5/format", r.URL.Path)
		assert.Equal(t, "teaser", r.URL.Query().Get("view_mode"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(testData)
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	formatted, err := client.GetFormattedMedia(context.Background(), "5", "teaser")

	require.NoError(t, err)
	assert.Equal(t, "teaser", formatted.Type)
	assert.Equal(t, "teaser", formatted.Options.String("format"))
	assert.Equal(t, "Harbor at dusk", formatted.Options.String("field_file_image_alt_text[und][0][value]"))
	assert.Contains(t, formatted.HTML, "<img")
}

func TestClient_GetFormattedMedia_EmptyOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"type": "default", "options": [], "html": "<span>doc.pdf</span>"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	formatted, err := client.GetFormattedMedia(context.Background(), "12", "")

	require.NoError(t, err)
	assert.NotNil(t, formatted.Options)
	assert.Empty(t, formatted.Options)
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/media/api/status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "editor" || pass != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL, "editor", "good").Ping(context.Background()))

	err := NewClient(server.URL, "editor", "bad").Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestFile_Source(t *testing.T) {
	img := &File{Mime: "image/png", URL: "/a.png", Filename: "a.png"}
	assert.Equal(t, media.Source{TagName: "img", Src: "/a.png"}, img.Source())

	doc := &File{Type: "document", Filename: "R&D <draft>.pdf"}
	src := doc.Source()
	assert.Equal(t, "span", src.TagName)
	assert.Equal(t, "R&amp;D &lt;draft&gt;.pdf", src.InnerHTML)
	assert.Equal(t, "<span>R&amp;D &lt;draft&gt;.pdf</span>", src.Markup())
}

func TestViewMode_DisplayLabel(t *testing.T) {
	tests := []struct {
		mode ViewMode
		want string
	}{
		{ViewMode{Name: "teaser", Label: "Short teaser"}, "Short teaser"},
		{ViewMode{Name: "teaser"}, "Teaser"},
		{ViewMode{Name: "media_original"}, "Media Original"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.DisplayLabel())
		})
	}
}
