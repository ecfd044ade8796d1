package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BaiduRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poi_baidu_requests_total",
		Help: "Total Baidu API requests, labeled by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	BaiduRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "poi_baidu_request_duration_seconds",
		Help:    "Baidu API call duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	RetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poi_retries_total",
		Help: "Failed attempts that were retried, labeled by operation",
	}, []string{"operation"})
	CrawlPagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poi_crawl_pages_total",
		Help: "Non-empty result pages fetched by the crawler",
	})
	CrawlRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poi_crawl_rows_total",
		Help: "POI rows received from the place search API",
	})
	CrawlFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poi_crawl_failures_total",
		Help: "Region/query crawls that exhausted their retries",
	})
	StoreUpsertedRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poi_store_upserted_rows_total",
		Help: "Rows written to the POI store",
	})
	RegionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poi_region_cache_hits_total",
		Help: "Region hierarchy served from the on-disk cache",
	})
	RegionResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poi_region_resolutions_total",
		Help: "Region hierarchy resolutions, labeled by strategy",
	}, []string{"strategy"})
)

func init() {
	prometheus.MustRegister(
		BaiduRequestsTotal,
		BaiduRequestDuration,
		RetriesTotal,
		CrawlPagesTotal,
		CrawlRowsTotal,
		CrawlFailuresTotal,
		StoreUpsertedRowsTotal,
		RegionCacheHitsTotal,
		RegionResolutionsTotal,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
