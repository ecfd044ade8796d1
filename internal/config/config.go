package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Baidu    BaiduConfig
	Crawler  CrawlerConfig
	Region   RegionConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig описывает хранилище POI. Driver: "sqlite" или "postgres".
type DatabaseConfig struct {
	Driver          string
	SQLitePath      string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ExportCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// BaiduConfig - параметры внешнего API Baidu Maps
type BaiduConfig struct {
	AccessKey      string
	RegionAPIURL   string
	PlaceAPIURL    string
	RequestTimeout time.Duration
	RetCoordType   string
}

type CrawlerConfig struct {
	QPS            float64
	Workers        int
	CityLimit      bool
	DefaultQueries []string
}

type RegionConfig struct {
	CacheFile      string
	ExcludeHKMacau bool
	ExcludeTaiwan  bool
	// RefreshInterval > 0 включает фоновое обновление кеша регионов в API-сервере (нужен BAIDU_AK)
	RefreshInterval time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

// DefaultQueries - набор категорий, который используется, если запрос не передал свои
var DefaultQueries = []string{
	"美食", "酒店", "购物", "生活服务", "休闲娱乐", "运动健身", "教育培训",
	"医疗", "汽车服务", "交通设施", "金融", "房地产", "公司企业", "政府机构",
	"旅游景点", "自然地物", "公共设施", "商务住宅", "物流仓储", "房产小区",
	"加油站", "停车场", "银行", "超市", "便利店", "景点", "博物馆", "图书馆",
	"体育场馆", "电影院", "咖啡厅", "茶馆", "酒吧",
}

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			SQLitePath:      v.GetString("DB_SQLITE_PATH"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ExportCacheTTL: time.Duration(v.GetInt("CACHE_EXPORT_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Baidu: BaiduConfig{
			AccessKey:      v.GetString("BAIDU_AK"),
			RegionAPIURL:   v.GetString("BAIDU_REGION_API_URL"),
			PlaceAPIURL:    v.GetString("BAIDU_PLACE_API_URL"),
			RequestTimeout: time.Duration(v.GetInt("BAIDU_REQUEST_TIMEOUT")) * time.Second,
			RetCoordType:   v.GetString("BAIDU_RET_COORDTYPE"),
		},
		Crawler: CrawlerConfig{
			QPS:            v.GetFloat64("CRAWLER_QPS"),
			Workers:        v.GetInt("CRAWLER_WORKERS"),
			CityLimit:      true,
			DefaultQueries: ParseList(v.GetString("CRAWLER_DEFAULT_QUERIES")),
		},
		Region: RegionConfig{
			CacheFile:       v.GetString("REGION_CACHE_FILE"),
			ExcludeHKMacau:  v.GetBool("REGION_EXCLUDE_HK_MACAU"),
			ExcludeTaiwan:   v.GetBool("REGION_EXCLUDE_TAIWAN"),
			RefreshInterval: time.Duration(v.GetInt("REGION_REFRESH_INTERVAL")) * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if v.IsSet("CRAWLER_CITY_LIMIT") {
		cfg.Crawler.CityLimit = v.GetBool("CRAWLER_CITY_LIMIT")
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "./poi.sqlite"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Cache.ExportCacheTTL == 0 {
		c.Cache.ExportCacheTTL = 60 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Baidu.RegionAPIURL == "" {
		c.Baidu.RegionAPIURL = "https://api.map.baidu.com/api_region_search/v1/"
	}
	if c.Baidu.PlaceAPIURL == "" {
		c.Baidu.PlaceAPIURL = "https://api.map.baidu.com/place/v2/search"
	}
	if c.Baidu.RequestTimeout == 0 {
		c.Baidu.RequestTimeout = 20 * time.Second
	}
	if c.Baidu.RetCoordType == "" {
		c.Baidu.RetCoordType = "gcj02ll"
	}
	if c.Crawler.QPS == 0 {
		c.Crawler.QPS = 2.0
	}
	if c.Crawler.Workers == 0 {
		c.Crawler.Workers = 1
	}
	if len(c.Crawler.DefaultQueries) == 0 {
		c.Crawler.DefaultQueries = append([]string(nil), DefaultQueries...)
	}
	if c.Region.CacheFile == "" {
		c.Region.CacheFile = "regions.json"
	}
}

// ParseList разбирает список через запятую, пустые элементы отбрасываются
func ParseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
