package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-crawler/internal/config"
	"github.com/poi-crawler/internal/delivery/http/handler"
	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/usecase/dto"
)

type stubRegions struct{}

func (stubRegions) Resolve(context.Context, domain.ResolveOptions) (*domain.RegionMap, error) {
	return domain.FallbackRegions(), nil
}

type stubCrawl struct{}

func (stubCrawl) CrawlBatch(context.Context, dto.CrawlRequest) (*dto.CrawlSummary, error) {
	return &dto.CrawlSummary{OK: true}, nil
}

type stubExport struct{}

func (stubExport) GetGeoJSON(context.Context, string) (*domain.FeatureCollection, error) {
	return domain.NewFeatureCollection(nil), nil
}

func (stubExport) GetCategories(context.Context) ([]domain.CategoryCount, error) {
	return []domain.CategoryCount{}, nil
}

func (stubExport) WriteCSV(context.Context, io.Writer, string) (int, error) {
	return 0, nil
}

func newTestServer(metricsEnabled bool) *Server {
	cfg := &config.Config{Metrics: config.MetricsConfig{Enabled: metricsEnabled}}
	log := zap.NewNop()
	return NewServer(cfg, log,
		handler.NewRegionHandler(stubRegions{}, false, false, log),
		handler.NewCrawlHandler(stubCrawl{}, log),
		handler.NewExportHandler(stubExport{}, log),
	)
}

func TestServer_Routes(t *testing.T) {
	app := newTestServer(true).App()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/regions", http.StatusOK},
		{http.MethodGet, "/api/v1/data", http.StatusOK},
		{http.MethodGet, "/api/v1/categories", http.StatusOK},
		{http.MethodGet, "/api/v1/export_csv", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	app := newTestServer(false).App()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_EmptyDataIsEmptyCollection(t *testing.T) {
	app := newTestServer(false).App()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/data", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(body))
}
