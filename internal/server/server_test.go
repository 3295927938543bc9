package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumake/internal/config"
	"resumake/internal/errors"
)

const testCV = `name: Jane Doe
title: Staff Engineer
contact:
  email: jane@example.com
experience:
  - title: Staff Engineer
    org: Acme Corp
    start: 2020
    end: present
    bullets:
      - Led the platform team
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.App.Source = filepath.Join(dir, "cv.yaml")
	cfg.App.OutputDir = filepath.Join(dir, "output")
	cfg.App.AssetsDir = filepath.Join(dir, "assets")
	cfg.App.Theme = "modern"
	cfg.App.Lang = "en"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "8642"
	cfg.Server.MaxBodyBytes = 5 << 20

	require.NoError(t, os.WriteFile(cfg.App.Source, []byte(testCV), 0o600))

	logger := errors.NewLogger(slog.LevelError)
	return NewServer(cfg, "test", nil, logger)
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.healthHandler, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestGetCVHandler(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.getCVHandler, http.MethodGet, "/api/cv", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body cvRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, testCV, body.YAML)
}

func TestGetCVHandlerMissingFile(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.Remove(s.sourcePath()))

	rec := doJSON(t, s.getCVHandler, http.MethodGet, "/api/cv", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutCVHandlerRoundTrip(t *testing.T) {
	s := newTestServer(t)

	updated := strings.Replace(testCV, "Jane Doe", "Janet Doe", 1)
	rec := doJSON(t, s.putCVHandler, http.MethodPost, "/api/cv", cvRequest{YAML: updated})
	require.Equal(t, http.StatusOK, rec.Code)

	saved, err := os.ReadFile(s.sourcePath())
	require.NoError(t, err)
	assert.Equal(t, updated, string(saved))
}

func TestPutCVHandlerRejectsInvalid(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.putCVHandler, http.MethodPost, "/api/cv", cvRequest{YAML: "title: No Name\n"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["problems"])

	// File untouched.
	saved, err := os.ReadFile(s.sourcePath())
	require.NoError(t, err)
	assert.Equal(t, testCV, string(saved))
}

func TestValidateHandler(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.validateHandler, http.MethodPost, "/api/validate", cvRequest{YAML: testCV})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Valid    bool              `json:"valid"`
		Problems []map[string]any  `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Valid)
	assert.Empty(t, body.Problems)

	rec = doJSON(t, s.validateHandler, http.MethodPost, "/api/validate", cvRequest{YAML: "title: nothing\n"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	assert.NotEmpty(t, body.Problems)
}

func TestPreviewHandlerInjectsReload(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/preview", nil)
	rec := httptest.NewRecorder()
	s.previewHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Jane Doe")
	assert.Contains(t, rec.Body.String(), "EventSource")
}

func TestPreviewHandlerUnknownTheme(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/preview?theme=nope", nil)
	rec := httptest.NewRecorder()
	s.previewHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildHandler(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.buildHandler, http.MethodPost, "/api/build", buildRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Filename string `json:"filename"`
		Size     int    `json:"size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Jane_Doe_CV_EN.docx", body.Filename)
	assert.Positive(t, body.Size)

	info, err := os.Stat(filepath.Join(s.outputDir(), body.Filename))
	require.NoError(t, err)
	assert.EqualValues(t, body.Size, info.Size())
}

func TestExportHandler(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.exportHandler, http.MethodPost, "/api/export", exportRequest{Format: "markdown"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "Jane Doe")
}

func TestExportHandlerUnsupportedFormat(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.exportHandler, http.MethodPost, "/api/export", exportRequest{Format: "pdfx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadHandlerRejectsTraversal(t *testing.T) {
	s := newTestServer(t)

	mux := s.setupRoutes()
	req := httptest.NewRequest(http.MethodGet, "/api/download/..%2Fcv.yaml", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestStatusHandler(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.statusHandler, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CVExists bool     `json:"cv_exists"`
		Provider string   `json:"provider"`
		Themes   []string `json:"themes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.CVExists)
	assert.Equal(t, "none", body.Provider)
	assert.Contains(t, body.Themes, "modern")
}

func TestAIHandlersWithoutProvider(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.tailorHandler, http.MethodPost, "/api/tailor", jobRequest{Job: "Go engineer"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, s.suggestHandler, http.MethodPost, "/api/suggest", map[string]any{})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.APIKeys = map[string]bool{"secret-key-12345": true}

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cv", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/cv", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/cv", nil)
	req.Header.Set("X-API-Key", "secret-key-12345")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/cv", nil)
	req.Header.Set("Authorization", "Bearer secret-key-12345")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServer(t)

	var seen string
	handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cv", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/cv", nil)
	req.Header.Set("X-Request-ID", "given-id")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, "given-id", seen)
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 2}
	s.RateLimiter = NewLimiterManager(60, 2, s.Logger)
	defer s.RateLimiter.Close()

	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/cv", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		rec := httptest.NewRecorder()
		handler(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestInjectReload(t *testing.T) {
	withBody := []byte("<html><body><p>hi</p></body></html>")
	out := injectReload(withBody)
	assert.Contains(t, string(out), "EventSource")
	assert.Less(t, bytes.Index(out, []byte("EventSource")), bytes.Index(out, []byte("</body>")))

	noBody := []byte("<p>hi</p>")
	out = injectReload(noBody)
	assert.Contains(t, string(out), "EventSource")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefgh123456"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:4242"
	assert.Equal(t, "192.168.1.10", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", getClientIP(req))
}

func TestGetRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:4242"
	assert.Equal(t, "ip:192.168.1.10", getRateLimitKey(req, true))

	req.Header.Set("X-API-Key", "key-1")
	assert.Equal(t, "api:key-1", getRateLimitKey(req, true))
	assert.Equal(t, "ip:192.168.1.10", getRateLimitKey(req, false))
}
