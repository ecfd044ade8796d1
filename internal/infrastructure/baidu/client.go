package baidu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/poi-crawler/internal/config"
	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	"github.com/poi-crawler/internal/pkg/metrics"
	"go.uber.org/zap"
)

const (
	endpointRegion = "region"
	endpointPlace  = "place"

	// maxErrorBody - сколько байт тела ошибки попадает в лог и текст ошибки
	maxErrorBody = 512
)

type client struct {
	httpClient   *http.Client
	regionURL    string
	placeURL     string
	retCoordType string
	logger       *zap.Logger
}

// NewBaiduClient создает клиент для API административного деления и Place API Baidu
func NewBaiduClient(cfg *config.BaiduConfig, logger *zap.Logger) repository.BaiduRepository {
	return NewBaiduClientWithHTTP(cfg, &http.Client{Timeout: cfg.RequestTimeout}, logger)
}

func NewBaiduClientWithHTTP(cfg *config.BaiduConfig, httpClient *http.Client, logger *zap.Logger) repository.BaiduRepository {
	retCoordType := cfg.RetCoordType
	if retCoordType == "" {
		retCoordType = "gcj02ll"
	}
	return &client{
		httpClient:   httpClient,
		regionURL:    cfg.RegionAPIURL,
		placeURL:     cfg.PlaceAPIURL,
		retCoordType: retCoordType,
		logger:       logger,
	}
}

// SearchRegion выполняет один запрос к API административного деления.
// Статус API не проверяется: решение принимает вызывающий код.
func (c *client) SearchRegion(ctx context.Context, query domain.RegionQuery) (*domain.RegionResponse, error) {
	params := url.Values{}
	params.Set("keyword", query.Keyword)
	params.Set("sub_admin", strconv.Itoa(query.SubAdmin))
	params.Set("extensions_code", strconv.Itoa(query.ExtensionsCode))
	params.Set("output", "json")
	params.Set("ak", query.APIKey)

	body, err := c.get(ctx, endpointRegion, c.regionURL, params)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.Error("Failed to decode region response", zap.Error(err))
		metrics.BaiduRequestsTotal.WithLabelValues(endpointRegion, "decode_error").Inc()
		return nil, fmt.Errorf("failed to decode region response: %w", err)
	}

	resp := &domain.RegionResponse{Raw: raw}
	resp.Status, _ = domain.ParseAPIStatus(raw["status"])
	resp.Message = firstString(raw, "message", "msg")

	c.logger.Debug("Region API call completed",
		zap.String("keyword", query.Keyword),
		zap.Int("sub_admin", query.SubAdmin),
		zap.Int("status", int(resp.Status)))

	return resp, nil
}

// SearchPlace запрашивает одну страницу Place API
func (c *client) SearchPlace(ctx context.Context, query domain.PlaceQuery) (*domain.PlaceResponse, error) {
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	params := url.Values{}
	params.Set("query", query.Query)
	params.Set("region", query.Region)
	params.Set("city_limit", strconv.FormatBool(query.CityLimit))
	params.Set("output", "json")
	params.Set("ak", query.APIKey)
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("page_num", strconv.Itoa(query.PageNum))
	params.Set("scope", "2")
	params.Set("extensions_adcode", "true")
	params.Set("ret_coordtype", c.retCoordType)

	body, err := c.get(ctx, endpointPlace, c.placeURL, params)
	if err != nil {
		return nil, err
	}

	resp := domain.PlaceResponse{Status: domain.StatusMissing}
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to decode place response", zap.Error(err))
		metrics.BaiduRequestsTotal.WithLabelValues(endpointPlace, "decode_error").Inc()
		return nil, fmt.Errorf("failed to decode place response: %w", err)
	}
	if resp.Message == "" {
		var extra struct {
			Msg string `json:"msg"`
		}
		_ = json.Unmarshal(body, &extra)
		resp.Message = extra.Msg
	}

	c.logger.Debug("Place API call completed",
		zap.String("query", query.Query),
		zap.String("region", query.Region),
		zap.Int("page_num", query.PageNum),
		zap.Int("status", int(resp.Status)),
		zap.Int("results", len(resp.Results)))

	return &resp, nil
}

func (c *client) get(ctx context.Context, endpoint, baseURL string, params url.Values) ([]byte, error) {
	reqURL := baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BaiduRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("Failed to execute request", zap.String("endpoint", endpoint), zap.Error(err))
		metrics.BaiduRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("failed to execute %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BaiduRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.logger.Warn("Baidu API returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", snippet))
		metrics.BaiduRequestsTotal.WithLabelValues(endpoint, "http_error").Inc()
		return nil, fmt.Errorf("baidu %s API error: status %d, body: %s", endpoint, resp.StatusCode, snippet)
	}

	metrics.BaiduRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
