package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-crawler/internal/delivery/http/handler"
	"github.com/poi-crawler/internal/domain"
	apperrors "github.com/poi-crawler/internal/pkg/errors"
	"github.com/poi-crawler/internal/usecase/dto"
)

type mockRegionService struct {
	mock.Mock
}

func (m *mockRegionService) Resolve(ctx context.Context, opts domain.ResolveOptions) (*domain.RegionMap, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegionMap), args.Error(1)
}

type mockCrawlService struct {
	mock.Mock
}

func (m *mockCrawlService) CrawlBatch(ctx context.Context, req dto.CrawlRequest) (*dto.CrawlSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CrawlSummary), args.Error(1)
}

type mockExportService struct {
	mock.Mock
}

func (m *mockExportService) GetGeoJSON(ctx context.Context, sourceQuery string) (*domain.FeatureCollection, error) {
	args := m.Called(ctx, sourceQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeatureCollection), args.Error(1)
}

func (m *mockExportService) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

func (m *mockExportService) WriteCSV(ctx context.Context, w io.Writer, sourceQuery string) (int, error) {
	args := m.Called(ctx, w, sourceQuery)
	if body := args.String(2); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Int(0), args.Error(1)
}

func newApp() *fiber.App {
	return fiber.New()
}

type requestIDKey struct{}

// withRequestID кладет значение в UserContext, как это делал бы middleware трассировки
func withRequestID(id string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(context.WithValue(c.UserContext(), requestIDKey{}, id))
		return c.Next()
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestRegionHandler_GetRegions(t *testing.T) {
	t.Run("passes key and refresh flag", func(t *testing.T) {
		svc := &mockRegionService{}
		svc.On("Resolve", mock.Anything, domain.ResolveOptions{
			APIKey:        "key",
			ForceRefresh:  true,
			ExcludeTaiwan: true,
		}).Return(domain.FallbackRegions(), nil).Once()

		app := newApp()
		app.Get("/regions", handler.NewRegionHandler(svc, false, true, zap.NewNop()).GetRegions)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/regions?ak=%20key%20&refresh=YES", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := readBody(t, resp)
		assert.True(t, strings.HasPrefix(body, `{"甘肃省":{"兰州市":["城关区"`), body)
		svc.AssertExpectations(t)
	})

	t.Run("refresh defaults to false", func(t *testing.T) {
		svc := &mockRegionService{}
		svc.On("Resolve", mock.Anything, domain.ResolveOptions{}).Return(domain.FallbackRegions(), nil).Once()

		app := newApp()
		app.Get("/regions", handler.NewRegionHandler(svc, false, false, zap.NewNop()).GetRegions)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/regions?refresh=0", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("upstream error", func(t *testing.T) {
		svc := &mockRegionService{}
		svc.On("Resolve", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUpstream.WithMessage("status 240"))

		app := newApp()
		app.Get("/regions", handler.NewRegionHandler(svc, false, false, zap.NewNop()).GetRegions)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/regions?ak=k&refresh=1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), apperrors.CodeUpstream)
	})

	t.Run("exhausted transport retries answer 502", func(t *testing.T) {
		svc := &mockRegionService{}
		svc.On("Resolve", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrUpstream.WithMessage("Region API request failed: 中国").Wrap(errors.New("connection refused")))

		app := newApp()
		app.Get("/regions", handler.NewRegionHandler(svc, false, false, zap.NewNop()).GetRegions)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/regions?ak=k", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "connection refused")
	})

	t.Run("uses the request user context", func(t *testing.T) {
		svc := &mockRegionService{}
		svc.On("Resolve", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Value(requestIDKey{}) == "req-1"
		}), mock.Anything).Return(domain.FallbackRegions(), nil).Once()

		app := newApp()
		app.Use(withRequestID("req-1"))
		app.Get("/regions", handler.NewRegionHandler(svc, false, false, zap.NewNop()).GetRegions)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/regions", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})
}

func postJSON(app *fiber.App, path, body string) (*http.Response, error) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return app.Test(req, -1)
}

func TestCrawlHandler_Crawl(t *testing.T) {
	setup := func(svc *mockCrawlService) *fiber.App {
		app := newApp()
		app.Post("/crawl", handler.NewCrawlHandler(svc, zap.NewNop()).Crawl)
		return app
	}

	t.Run("all regions succeeded", func(t *testing.T) {
		svc := &mockCrawlService{}
		svc.On("CrawlBatch", mock.Anything, mock.MatchedBy(func(req dto.CrawlRequest) bool {
			return req.APIKey == "key" && req.Province == "甘肃省" && req.City == "兰州市" &&
				req.Queries == "美食,酒店" && req.QPS != nil && *req.QPS == 5 &&
				req.CityLimit != nil && !*req.CityLimit
		})).Return(&dto.CrawlSummary{
			OK:                true,
			Regions:           []string{"城关区"},
			InsertedOrUpdated: 12,
			PerRegion:         []domain.RegionCrawlStats{{Region: "城关区", InsertedOrUpdated: 12}},
			Errors:            []domain.RegionError{},
		}, nil).Once()

		resp, err := postJSON(setup(svc), "/crawl",
			`{"ak":" key ","province":"甘肃省","city":"兰州市","district":"all","queries":"美食,酒店","qps":5,"city_limit":false}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var summary dto.CrawlSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
		assert.True(t, summary.OK)
		assert.Equal(t, 12, summary.InsertedOrUpdated)
		svc.AssertExpectations(t)
	})

	t.Run("partial failure returns 207", func(t *testing.T) {
		svc := &mockCrawlService{}
		svc.On("CrawlBatch", mock.Anything, mock.Anything).Return(&dto.CrawlSummary{
			OK:      true,
			Regions: []string{"城关区", "七里河区"},
			Errors:  []domain.RegionError{{Region: "七里河区", Error: "CRAWL_ERROR"}},
		}, nil)

		resp, err := postJSON(setup(svc), "/crawl", `{"ak":"key","province":"甘肃省"}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusMultiStatus, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "七里河区")
	})

	t.Run("missing key", func(t *testing.T) {
		svc := &mockCrawlService{}

		resp, err := postJSON(setup(svc), "/crawl", `{"ak":"  ","province":"甘肃省"}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "MISSING_API_KEY")
		svc.AssertNotCalled(t, "CrawlBatch", mock.Anything, mock.Anything)
	})

	t.Run("invalid json", func(t *testing.T) {
		svc := &mockCrawlService{}

		resp, err := postJSON(setup(svc), "/crawl", `{"ak":`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "INVALID_REQUEST")
	})

	t.Run("missing province fails validation", func(t *testing.T) {
		svc := &mockCrawlService{}

		resp, err := postJSON(setup(svc), "/crawl", `{"ak":"key"}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "CrawlBatch", mock.Anything, mock.Anything)
	})

	t.Run("invalid selection", func(t *testing.T) {
		svc := &mockCrawlService{}
		svc.On("CrawlBatch", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrInvalidSelection.WithMessage("Unknown province 火星省"))

		resp, err := postJSON(setup(svc), "/crawl", `{"ak":"key","province":"火星省"}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), apperrors.CodeInvalidSelection)
	})
}

func TestExportHandler(t *testing.T) {
	setup := func(svc *mockExportService) *fiber.App {
		h := handler.NewExportHandler(svc, zap.NewNop())
		app := newApp()
		app.Get("/data", h.GetData)
		app.Get("/categories", h.GetCategories)
		app.Get("/export_csv", h.ExportCSV)
		return app
	}

	t.Run("data is a bare feature collection", func(t *testing.T) {
		svc := &mockExportService{}
		svc.On("GetGeoJSON", mock.Anything, "美食").Return(domain.NewFeatureCollection([]domain.Feature{
			domain.NewPointFeature(103.83, 36.06, map[string]interface{}{"uid": "a"}),
		}), nil)

		resp, err := setup(svc).Test(httptest.NewRequest(http.MethodGet, "/data?source_query=%E7%BE%8E%E9%A3%9F", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var fc domain.FeatureCollection
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
		assert.Equal(t, "FeatureCollection", fc.Type)
		require.Len(t, fc.Features, 1)
		assert.Equal(t, [2]float64{103.83, 36.06}, fc.Features[0].Geometry.Coordinates)
	})

	t.Run("categories", func(t *testing.T) {
		svc := &mockExportService{}
		svc.On("GetCategories", mock.Anything).Return([]domain.CategoryCount{{SourceQuery: "美食", Count: 2}}, nil)

		resp, err := setup(svc).Test(httptest.NewRequest(http.MethodGet, "/categories", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[{"source_query":"美食","count":2}]`, readBody(t, resp))
	})

	t.Run("store error", func(t *testing.T) {
		svc := &mockExportService{}
		svc.On("GetCategories", mock.Anything).Return(nil, apperrors.ErrDatabaseError.Wrap(errors.New("locked")))

		resp, err := setup(svc).Test(httptest.NewRequest(http.MethodGet, "/categories", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "DATABASE_ERROR")
	})

	t.Run("csv attachment", func(t *testing.T) {
		svc := &mockExportService{}
		svc.On("WriteCSV", mock.Anything, mock.Anything, "").Return(1, nil, "\ufeffuid,name\na,b\n")

		resp, err := setup(svc).Test(httptest.NewRequest(http.MethodGet, "/export_csv", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename=poi_export_")
		assert.Equal(t, "\ufeffuid,name\na,b\n", readBody(t, resp))
	})
}
