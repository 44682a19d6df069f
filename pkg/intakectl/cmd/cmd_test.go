package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCommand(Config{OutputWriter: &buf})
	if server != nil {
		args = append(args, "--server", server.URL, "--token", "secret")
	}
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(&buf)
	err := root.Execute()
	return buf.String(), err
}

func TestListCommandTableOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/contact/submissions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"submissions": []map[string]any{
				{"reference": "ref-1", "name": "Alice", "email": "alice@example.com", "message": "hi"},
			},
			"total": 1, "limit": 50, "offset": 0,
		})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "list")
	require.NoError(t, err)
	require.Contains(t, out, "REFERENCE")
	require.Contains(t, out, "ref-1")
}

func TestListCommandJSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"submissions": []any{}, "total": 0, "limit": 50, "offset": 0})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "list", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"total": 0`)
}

func TestGetCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/contact/submissions/ref-9", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reference": "ref-9", "name": "Bob", "email": "bob@example.com", "message": "full message body",
		})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "get", "ref-9")
	require.NoError(t, err)
	require.Contains(t, out, "Reference:")
	require.Contains(t, out, "full message body")
}

func TestGetCommandRequiresArg(t *testing.T) {
	_, err := executeCommand(t, nil, "get")
	require.Error(t, err)
}

func TestListCommandRequiresServer(t *testing.T) {
	t.Setenv("INTAKECTL_SERVER", "")
	_, err := executeCommand(t, nil, "list")
	require.Error(t, err)
	require.Contains(t, err.Error(), "server is required")
}

func TestHealthCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": "1.2.3"})
	}))
	defer server.Close()

	out, err := executeCommand(t, server, "health")
	require.NoError(t, err)
	require.Contains(t, out, "ok (server version 1.2.3)")
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, nil, "version")
	require.NoError(t, err)
	require.Contains(t, out, "intakectl")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := executeCommand(t, nil, "version", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"version"`)
}
