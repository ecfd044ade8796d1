package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/pkg/utils"
	"github.com/poi-crawler/internal/usecase/dto"
	"go.uber.org/zap"
)

// RegionHandler отдает иерархию провинция -> город -> районы
type RegionHandler struct {
	regionUC       RegionService
	excludeHKMacau bool
	excludeTaiwan  bool
	logger         *zap.Logger
}

func NewRegionHandler(regionUC RegionService, excludeHKMacau, excludeTaiwan bool, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{
		regionUC:       regionUC,
		excludeHKMacau: excludeHKMacau,
		excludeTaiwan:  excludeTaiwan,
		logger:         logger,
	}
}

// GetRegions godoc
// @Summary Иерархия административных регионов
// @Description Возвращает упорядоченный объект {"省": {"市": ["区", ...]}}. Без ak отдается встроенная иерархия.
// @Tags Regions
// @Produce json
// @Param ak query string false "Ключ Baidu Maps API"
// @Param refresh query string false "1/true/yes - перечитать иерархию из API"
// @Success 200 {object} map[string]map[string][]string
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/regions [get]
func (h *RegionHandler) GetRegions(c *fiber.Ctx) error {
	req := dto.RegionsRequest{
		APIKey:  strings.TrimSpace(c.Query("ak")),
		Refresh: parseFlag(c.Query("refresh")),
	}

	regions, err := h.regionUC.Resolve(c.UserContext(), domain.ResolveOptions{
		APIKey:         req.APIKey,
		ForceRefresh:   req.Refresh,
		ExcludeHKMacau: h.excludeHKMacau,
		ExcludeTaiwan:  h.excludeTaiwan,
	})
	if err != nil {
		h.logger.Error("Failed to resolve regions", zap.Error(err))
		return utils.SendError(c, err)
	}

	return c.JSON(regions)
}

func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
