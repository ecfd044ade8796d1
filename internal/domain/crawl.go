package domain

// CrawlRegionParams - один вызов обхода региона по списку запросов
type CrawlRegionParams struct {
	APIKey    string
	Region    string
	Queries   []string
	QPS       float64
	CityLimit bool
}

// CrawlJob - пара (регион, запрос) с курсором страницы; не сохраняется
type CrawlJob struct {
	Region string
	Query  string
	Page   int
}

// CrawlJobState - состояния обхода одной пары (регион, запрос)
type CrawlJobState string

const (
	CrawlJobDone   CrawlJobState = "done"
	CrawlJobFailed CrawlJobState = "failed"
)

// QueryStats - итог по одному запросу внутри региона
type QueryStats struct {
	Query string        `json:"query"`
	Count int           `json:"count"`
	Pages int           `json:"pages"`
	State CrawlJobState `json:"state"`
	Error string        `json:"error,omitempty"`
}

// RegionCrawlStats - итог обхода одного региона
type RegionCrawlStats struct {
	Region            string       `json:"region"`
	InsertedOrUpdated int          `json:"inserted_or_updated"`
	PerQuery          []QueryStats `json:"per_query"`
}

// RegionError - ошибка обхода листового региона в сводке пакета
type RegionError struct {
	Region string `json:"region"`
	Error  string `json:"error"`
}
