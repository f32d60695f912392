package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/docs/status/job-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"job_id":"job-1","status":"COMPLETED","progress":100}}`))
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	resp, err := api.Get("/api/docs/status/job-1")
	require.NoError(t, err)

	var status JobStatus
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "job-1", status.JobID)
	assert.Equal(t, "COMPLETED", status.Status)
}

func TestAPIClient_Post_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no information found"}`))
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	_, err = api.Post("/api/chat", AskRequest{Question: "q"})

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "no information found", apiErr.Message)
}

func TestAPIClient_Delete_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	_, err = api.Delete("/api/docs/")
	assert.NoError(t, err)
}

func TestAPIClient_UploadPDF_SendsMultipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake content"), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "doc.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake content", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"data":{"job_id":"job-9","status":"PROCESSING"}}`))
	}))
	defer server.Close()

	api, err := NewAPIClientWithConfig(server.URL)
	require.NoError(t, err)

	resp, err := api.UploadPDF("/api/docs/upload", path)
	require.NoError(t, err)

	var result UploadResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "job-9", result.JobID)
	assert.Equal(t, "PROCESSING", result.Status)
}

func TestNewAPIClientWithCmd_EnvFallback(t *testing.T) {
	t.Setenv(envAPIURL, "http://example.test:9999")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9999", api.baseURL)
}

func TestNewAPIClientWithCmd_DefaultURL(t *testing.T) {
	t.Setenv(envAPIURL, "")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, api.baseURL)
}
