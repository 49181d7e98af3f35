package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropstage/internal/config"
	"dropstage/internal/domain"
)

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		Endpoint:       endpoint,
		FileField:      "files",
		TimeoutSeconds: 5,
	}
}

func stageTempFiles(t *testing.T, contents map[string]string) []domain.SelectedFile {
	t.Helper()
	dir := t.TempDir()

	var files []domain.SelectedFile
	for name, body := range contents {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		files = append(files, domain.SelectedFile{
			ID:   name,
			Name: name,
			Size: int64(len(body)),
			Path: path,
		})
	}
	return files
}

func TestSubmitEmptySelectionMakesNoRequest(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	c := NewController(testConfig(srv.URL), nil)

	attempt, err := c.SubmitTriggered(nil, nil)
	require.ErrorIs(t, err, ErrRejected)
	assert.Nil(t, attempt)
	assert.Equal(t, domain.StateUserError, c.Outcome().State)
	assert.Equal(t, "select at least one file", c.Outcome().Message)
	assert.Equal(t, int32(0), requests.Load())
}

func TestSubmitMissingRequiredField(t *testing.T) {
	c := NewController(testConfig("http://localhost:0"), nil)
	files := stageTempFiles(t, map[string]string{"a.txt": "hello"})

	_, err := c.SubmitTriggered(files, []FormValue{
		{Name: "title", Value: "", Required: true},
	})
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, domain.StateUserError, c.Outcome().State)
	assert.Equal(t, "title is required", c.Outcome().Message)
}

func TestSubmitRefusedWhileInFlight(t *testing.T) {
	c := NewController(testConfig("http://localhost:0"), nil)
	files := stageTempFiles(t, map[string]string{"a.txt": "hello"})

	attempt, err := c.SubmitTriggered(files, nil)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	require.True(t, c.InFlight())

	_, err = c.SubmitTriggered(files, nil)
	require.ErrorIs(t, err, ErrBusy)
	// The in-flight outcome is untouched by the refused submit
	assert.Equal(t, domain.StateInFlight, c.Outcome().State)
	assert.Equal(t, 1, c.Outcome().Files)
}

func TestUploadSuccess(t *testing.T) {
	var gotTitle string
	var gotFiles []string
	var gotBodies []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")
		for _, fh := range r.MultipartForm.File["files"] {
			gotFiles = append(gotFiles, fh.Filename)
			f, err := fh.Open()
			require.NoError(t, err)
			buf, err := io.ReadAll(f)
			require.NoError(t, err)
			f.Close()
			gotBodies = append(gotBodies, string(buf))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := NewController(testConfig(srv.URL), nil)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("first"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.txt"), []byte("second"), 0644))
	files := []domain.SelectedFile{
		{ID: "1", Name: "one.txt", Size: 5, Path: filepath.Join(dir, "one.txt")},
		{ID: "2", Name: "two.txt", Size: 6, Path: filepath.Join(dir, "two.txt")},
	}

	attempt, err := c.SubmitTriggered(files, []FormValue{
		{Name: "title", Value: "week 3 notes", Required: true},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateInFlight, c.Outcome().State)
	assert.Equal(t, "uploading 2 file(s)", c.Outcome().Message)

	out := c.Do(context.Background(), attempt)
	c.ResponseReceived(attempt, out)

	assert.Equal(t, domain.StateSuccess, c.Outcome().State)
	assert.Equal(t, "week 3 notes", gotTitle)
	// One part per file under the shared field name, in snapshot order
	assert.Equal(t, []string{"one.txt", "two.txt"}, gotFiles)
	assert.Equal(t, []string{"first", "second"}, gotBodies)
	assert.False(t, c.InFlight())
}

func TestUploadServerReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","message":"too large"}`))
	}))
	defer srv.Close()

	c := NewController(testConfig(srv.URL), nil)
	files := stageTempFiles(t, map[string]string{"a.txt": "hello"})

	attempt, err := c.SubmitTriggered(files, nil)
	require.NoError(t, err)

	out := c.Do(context.Background(), attempt)
	c.ResponseReceived(attempt, out)

	assert.Equal(t, domain.StateServerError, c.Outcome().State)
	assert.Equal(t, "too large", c.Outcome().Message)
}

func TestUploadMalformedResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	}))
	defer srv.Close()

	c := NewController(testConfig(srv.URL), nil)
	files := stageTempFiles(t, map[string]string{"a.txt": "hello"})

	attempt, err := c.SubmitTriggered(files, nil)
	require.NoError(t, err)

	out := c.Do(context.Background(), attempt)
	c.ResponseReceived(attempt, out)

	assert.Equal(t, domain.StateServerError, c.Outcome().State)
	assert.Equal(t, "server response invalid", c.Outcome().Message)
}

func TestUploadTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close() // connection refused from here on

	c := NewController(testConfig(endpoint), nil)
	files := stageTempFiles(t, map[string]string{"a.txt": "hello"})

	attempt, err := c.SubmitTriggered(files, nil)
	require.NoError(t, err)

	out := c.Do(context.Background(), attempt)
	c.ResponseReceived(attempt, out)

	assert.Equal(t, domain.StateTransportError, c.Outcome().State)
	assert.NotEmpty(t, c.Outcome().Message)
}

func TestSubmitAcceptedAfterError(t *testing.T) {
	c := NewController(testConfig("http://localhost:0"), nil)
	files := stageTempFiles(t, map[string]string{"a.txt": "hello"})

	attempt, err := c.SubmitTriggered(files, nil)
	require.NoError(t, err)
	c.ResponseReceived(attempt, domain.Outcome{State: domain.StateTransportError, Message: "refused"})

	// A fresh submit re-enters validation after any terminal outcome
	attempt, err = c.SubmitTriggered(files, nil)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	assert.Equal(t, domain.StateInFlight, c.Outcome().State)
}
