package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-crawler/internal/pkg/errors"
	"github.com/poi-crawler/internal/pkg/utils"
	"github.com/poi-crawler/internal/pkg/validator"
	"github.com/poi-crawler/internal/usecase/dto"
	"go.uber.org/zap"
)

type CrawlHandler struct {
	crawlUC CrawlService
	logger  *zap.Logger
}

func NewCrawlHandler(crawlUC CrawlService, logger *zap.Logger) *CrawlHandler {
	return &CrawlHandler{
		crawlUC: crawlUC,
		logger:  logger,
	}
}

// Crawl godoc
// @Summary Запустить обход POI
// @Description Разворачивает выбор провинция/город/район в листовые регионы и обходит их по списку запросов.
// @Description Если хотя бы один регион завершился ошибкой, возвращается 207 и список errors.
// @Tags Crawl
// @Accept json
// @Produce json
// @Param request body dto.CrawlRequest true "Параметры обхода"
// @Success 200 {object} dto.CrawlSummary
// @Success 207 {object} dto.CrawlSummary
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/crawl [post]
func (h *CrawlHandler) Crawl(c *fiber.Ctx) error {
	var req dto.CrawlRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Request body is not valid JSON"))
	}

	req.APIKey = strings.TrimSpace(req.APIKey)
	req.Province = strings.TrimSpace(req.Province)
	req.City = strings.TrimSpace(req.City)
	req.District = strings.TrimSpace(req.District)

	if req.APIKey == "" {
		return utils.SendError(c, errors.ErrMissingAPIKey)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	summary, err := h.crawlUC.CrawlBatch(c.UserContext(), req)
	if err != nil {
		h.logger.Warn("Crawl rejected", zap.Error(err))
		return utils.SendError(c, err)
	}

	status := fiber.StatusOK
	if summary.HasErrors() {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(summary)
}
