package errors

import "net/http"

const (
	CodeUpstream         = "UPSTREAM_ERROR"
	CodeEmptyResult      = "EMPTY_RESULT"
	CodeCrawl            = "CRAWL_ERROR"
	CodeInvalidSelection = "INVALID_SELECTION"
)

var (
	// ErrUpstream - внешний API вернул неуспешный статус
	ErrUpstream = New(
		CodeUpstream,
		"Upstream API reported failure",
		http.StatusBadGateway,
	)

	// ErrEmptyResult - ответ корректный, но иерархию регионов извлечь не удалось
	ErrEmptyResult = New(
		CodeEmptyResult,
		"No province list found in upstream response",
		http.StatusBadGateway,
	)

	// ErrCrawl - запрос по региону исчерпал попытки
	ErrCrawl = New(
		CodeCrawl,
		"Crawl failed after retries",
		http.StatusBadGateway,
	)

	// ErrInvalidSelection - выбранной провинции/города/района нет в иерархии
	ErrInvalidSelection = New(
		CodeInvalidSelection,
		"Selected region does not exist",
		http.StatusBadRequest,
	)

	ErrMissingAPIKey = New(
		"MISSING_API_KEY",
		"Baidu API key (ak) is required",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
