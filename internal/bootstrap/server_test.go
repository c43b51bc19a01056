package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/gateway"
	"github.com/Domenick1991/travelquote/internal/pipeline"
	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

func newTestConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	require.NoError(t, err)
	return cfg
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := newTestConfig(t, "model:\n  provider: mock\n")
	svc := quotation.NewQuotationService(pipeline.NewGenerator(gateway.MockGateway{}))
	router := NewRouter(cfg, svc, nil, zap.NewNop())

	testCases := []struct {
		name         string
		method       string
		path         string
		expectedCode int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", expectedCode: http.StatusOK},
		{name: "unknown quotation", method: http.MethodGet, path: "/api/v1/quotations/abc", expectedCode: http.StatusNotFound},
		{name: "list without database", method: http.MethodGet, path: "/api/v1/quotations", expectedCode: http.StatusOK},
		{name: "job without redis", method: http.MethodGet, path: "/api/v1/quotation-jobs/abc", expectedCode: http.StatusNotFound},
		{name: "docs disabled", method: http.MethodGet, path: "/docs", expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

func TestNewRouter_SwaggerDocs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotations.swagger.json"), []byte(`{"swagger":"2.0"}`), 0o644))

	cfg := newTestConfig(t, "http:\n  swagger_dir: "+dir+"\n")
	router := NewRouter(cfg, quotation.NewQuotationService(pipeline.NewGenerator(gateway.MockGateway{})), nil, zap.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/swagger/quotations.swagger.json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/quotations.swagger.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := newTestConfig(t, "http:\n  address: 127.0.0.1:0\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, cfg, quotation.NewQuotationService(pipeline.NewGenerator(gateway.MockGateway{})), nil, zap.NewNop())
	assert.NoError(t, err)
}
