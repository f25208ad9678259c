package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iconforge/internal/config"
	"iconforge/internal/domain"
	"iconforge/internal/handler"
	"iconforge/internal/service"
	"iconforge/internal/staging"
)

type nopModel struct{}

func (nopModel) Generate(context.Context, domain.ModelInput) ([]string, error) {
	return []string{"https://replicate.delivery/out.png"}, nil
}

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: "0", CORSAllowedOrigins: []string{"*"}},
		Replicate: config.ReplicateConfig{APIToken: "r8_test", Model: "stability-ai/sdxl:abc", GenerationTimeout: time.Second},
		Staging: config.StagingConfig{
			Backend:       backend,
			Dir:           t.TempDir(),
			PublicBaseURL: "http://localhost:8080",
		},
		App: config.AppConfig{MaxUploadSize: 1 << 20, AllowedFormats: []string{"image/png"}},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	log := zap.NewNop()
	svc := service.NewGenerationService(nopModel{}, staging.NewInlineStager(), cfg, log)
	return NewRouter(handler.NewHandler(svc, cfg, log), cfg, nil, log)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter(t, testConfig(t, config.StagingInline))

	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/asset-types").Code)

	w := get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "iconforge_http_requests_total")

	assert.Equal(t, http.StatusNotFound, get(r, "/staged/anything.png").Code)
}

func TestRouterServesDiskStaging(t *testing.T) {
	cfg := testConfig(t, config.StagingDisk)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Staging.Dir, "upload-x.png"), []byte("png"), 0644))

	w := get(newTestRouter(t, cfg), "/staged/upload-x.png")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestNewStager(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	cfg := testConfig(t, config.StagingInline)
	s, err := newStager(ctx, cfg, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &staging.InlineStager{}, s)

	cfg = testConfig(t, config.StagingDisk)
	s, err = newStager(ctx, cfg, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &staging.DiskStager{}, s)

	cfg = testConfig(t, "carrier-pigeon")
	_, err = newStager(ctx, cfg, nil, log)
	assert.Error(t, err)
}

func TestNewServer(t *testing.T) {
	srv, err := New(context.Background(), testConfig(t, config.StagingInline), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", srv.httpServer.Addr)
	assert.Nil(t, srv.redis)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}
