package dto

// RegionsRequest - параметры получения иерархии регионов
type RegionsRequest struct {
	APIKey  string `query:"ak"`
	Refresh bool   `query:"refresh"`
}

// DataRequest - фильтр выгрузки GeoJSON
type DataRequest struct {
	SourceQuery string `query:"source_query"`
}
