package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/school-records-api/internal/config"
	"github.com/aanand-mishra/school-records-api/internal/storage"
	"github.com/aanand-mishra/school-records-api/internal/storage/sqlite"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:           "dev",
		StorageDriver: config.DriverSQLite,
		StoragePath:   filepath.Join(t.TempDir(), "records.db"),
		HTTPServer:    config.HTTPServer{Addr: "localhost:0", MaxBodyBytes: 1 << 20},
		CORS:          config.CORS{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testConfig(t)

	store, err := sqlite.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(New(store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)
	const form = "application/x-www-form-urlencoded"

	steps := []struct {
		method, path, contentType, body string
		want                            int
	}{
		{http.MethodPost, "/api/parent/add", form, "parent_name=Maria", http.StatusCreated},
		{http.MethodGet, "/api/parent/list", "", "", http.StatusOK},
		{http.MethodPut, "/api/parent/update/1", form, "parent_name=Maria+L", http.StatusOK},
		{http.MethodDelete, "/api/parent/delete/1", "", "", http.StatusOK},
		{http.MethodPost, "/api/student/add", form,
			"student_name=Ann&student_age=7&parent_id=1&student_address=Oak+St", http.StatusCreated},
		{http.MethodGet, "/api/student/list?page=1&limit=2", "", "", http.StatusOK},
		{http.MethodPut, "/api/student/update/1", form,
			"student_name=Ann&student_age=8&parent_id=1&student_address=Oak+St", http.StatusOK},
		{http.MethodDelete, "/api/student/delete/1", "", "", http.StatusOK},
		{http.MethodGet, "/health", "", "", http.StatusOK},
		{http.MethodGet, "/api/course/list", "", "", http.StatusNotFound},
		{http.MethodPost, "/api/parent/list", "", "", http.StatusMethodNotAllowed},
	}

	for _, s := range steps {
		resp := send(t, s.method, srv.URL+s.path, s.contentType, s.body)
		assert.Equal(t, s.want, resp.StatusCode, "%s %s", s.method, s.path)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/student/add", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

type downStore struct {
	storage.Storage
}

func (downStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHealth_StoreDown(t *testing.T) {
	cfg := testConfig(t)
	h := New(downStore{}, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
