package api

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err)
	return data
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://cms.example.com/", "editor", "token123")

	assert.NotNil(t, client)
	assert.Equal(t, "https://cms.example.com", client.baseURL)
	assert.Equal(t, "https://cms.example.com", client.BaseURL())
	assert.Equal(t, "editor", client.user)
	assert.Equal(t, "token123", client.apiToken)
}

func TestClient_AuthHeader(t *testing.T) {
	var capturedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "mytoken")
	_, err := client.do(context.Background(), "GET", "/test", nil)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(capturedAuth, "Basic "))
	encoded := strings.TrimPrefix(capturedAuth, "Basic ")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "editor:mytoken", string(decoded))
}

func TestClient_Headers(t *testing.T) {
	var capturedHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "mytoken")
	_, err := client.do(context.Background(), "GET", "/test", nil)
	require.NoError(t, err)

	assert.Equal(t, "application/json", capturedHeaders.Get("Accept"))
	assert.Equal(t, "application/json", capturedHeaders.Get("Content-Type"))
}

func TestClient_ErrorResponse(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		responseBody   string
		expectedErrMsg string
	}{
		{
			name:           "401 unauthorized",
			statusCode:     401,
			responseBody:   `{"message": "Authentication failed"}`,
			expectedErrMsg: "Authentication failed",
		},
		{
			name:           "404 not found",
			statusCode:     404,
			responseBody:   `{"message": "File not found"}`,
			expectedErrMsg: "File not found",
		},
		{
			name:           "error with errors array",
			statusCode:     400,
			responseBody:   `{"message": "Bad request", "errors": ["Unknown view mode", "Missing fid"]}`,
			expectedErrMsg: "Unknown view mode",
		},
		{
			name:           "non-JSON body",
			statusCode:     502,
			responseBody:   `<html>Bad gateway</html>`,
			expectedErrMsg: "API error (status 502)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient(server.URL, "editor", "token")
			_, err := client.do(context.Background(), "GET", "/test", nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
		})
	}
}

func TestClient_ErrorResponse_Typed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Access denied"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	_, err := client.Get(context.Background(), "/test")

	var apiErr *ErrorResponse
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.do(ctx, "GET", "/test", nil)
	require.Error(t, err)
}

func TestClient_URLConstruction(t *testing.T) {
	var capturedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("https://unused.example.com", "editor", "token")

	tests := []struct {
		inputPath    string
		expectedPath string
	}{
		{server.URL + "/batch/7/progress", "/batch/7/progress"},
	}

	for _, tt := range tests {
		_, err := client.do(context.Background(), "GET", tt.inputPath, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.expectedPath, capturedPath)
	}

	client = NewClient(server.URL, "editor", "token")
	for _, p := range []string{"/media/api/status", "media/api/status"} {
		_, err := client.do(context.Background(), "GET", p, nil)
		require.NoError(t, err)
		assert.Equal(t, "/media/api/status", capturedPath)
	}
}

func TestStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "editor", "token")
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Contains(t, err.Error(), "API error (status 401)")

	assert.Equal(t, 0, StatusCode(errors.New("plain")))
	assert.Equal(t, 0, StatusCode(nil))
}
