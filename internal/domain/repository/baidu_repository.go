package repository

import (
	"context"

	"github.com/poi-crawler/internal/domain"
)

// RegionAPI - API административного деления Baidu (один HTTP-запрос на вызов, без повторов)
type RegionAPI interface {
	SearchRegion(ctx context.Context, query domain.RegionQuery) (*domain.RegionResponse, error)
}

// PlaceAPI - Place API v2 Baidu (одна страница на вызов, без повторов)
type PlaceAPI interface {
	SearchPlace(ctx context.Context, query domain.PlaceQuery) (*domain.PlaceResponse, error)
}

// BaiduRepository объединяет оба API
type BaiduRepository interface {
	RegionAPI
	PlaceAPI
}
