package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-crawler/internal/pkg/utils"
	"github.com/poi-crawler/internal/usecase/dto"
	"go.uber.org/zap"
)

// ExportHandler - выгрузки для карты: GeoJSON, категории, CSV
type ExportHandler struct {
	exportUC ExportService
	logger   *zap.Logger
}

func NewExportHandler(exportUC ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportUC: exportUC,
		logger:   logger,
	}
}

// GetData godoc
// @Summary Точки POI в GeoJSON
// @Description FeatureCollection с координатами в WGS-84. Записи без координат пропускаются.
// @Tags Export
// @Produce json
// @Param source_query query string false "Фильтр по поисковому запросу"
// @Success 200 {object} domain.FeatureCollection
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/data [get]
func (h *ExportHandler) GetData(c *fiber.Ctx) error {
	req := dto.DataRequest{SourceQuery: c.Query("source_query")}

	fc, err := h.exportUC.GetGeoJSON(c.UserContext(), req.SourceQuery)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(fc)
}

// GetCategories godoc
// @Summary Количество точек по запросам
// @Tags Export
// @Produce json
// @Success 200 {array} domain.CategoryCount
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/categories [get]
func (h *ExportHandler) GetCategories(c *fiber.Ctx) error {
	counts, err := h.exportUC.GetCategories(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(counts)
}

// ExportCSV godoc
// @Summary CSV-выгрузка всех точек
// @Description UTF-8 с BOM, координаты в WGS-84
// @Tags Export
// @Produce text/csv
// @Success 200 {file} file
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/export_csv [get]
func (h *ExportHandler) ExportCSV(c *fiber.Ctx) error {
	// Пишем в буфер до отправки, чтобы ошибка хранилища вернулась обычным JSON
	var buf bytes.Buffer
	rows, err := h.exportUC.WriteCSV(c.UserContext(), &buf, c.Query("source_query"))
	if err != nil {
		return utils.SendError(c, err)
	}

	filename := fmt.Sprintf("poi_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))

	h.logger.Debug("Sending CSV export", zap.Int("rows", rows))
	return c.Send(buf.Bytes())
}
