package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 2.0, cfg.Crawler.QPS)
	assert.Equal(t, 1, cfg.Crawler.Workers)
	assert.True(t, cfg.Crawler.CityLimit)
	assert.Equal(t, DefaultQueries, cfg.Crawler.DefaultQueries)
	assert.Len(t, cfg.Crawler.DefaultQueries, 33)
	assert.Equal(t, "gcj02ll", cfg.Baidu.RetCoordType)
	assert.Equal(t, 20*time.Second, cfg.Baidu.RequestTimeout)
	assert.Equal(t, "regions.json", cfg.Region.CacheFile)
}

func TestLoadFrom_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DB_DRIVER=Postgres\n" +
		"API_PORT=8080\n" +
		"CRAWLER_QPS=0.5\n" +
		"CRAWLER_WORKERS=4\n" +
		"CRAWLER_CITY_LIMIT=false\n" +
		"CRAWLER_DEFAULT_QUERIES= 美食 , ,酒店\n" +
		"REGION_EXCLUDE_TAIWAN=true\n" +
		"CACHE_EXPORT_TTL=5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Crawler.QPS)
	assert.Equal(t, 4, cfg.Crawler.Workers)
	assert.False(t, cfg.Crawler.CityLimit)
	assert.Equal(t, []string{"美食", "酒店"}, cfg.Crawler.DefaultQueries)
	assert.True(t, cfg.Region.ExcludeTaiwan)
	assert.Equal(t, 5*time.Second, cfg.Cache.ExportCacheTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"a", "b"}, ParseList(" a ,, b ,"))
	assert.Empty(t, ParseList(" , "))
}
