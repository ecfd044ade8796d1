package domain

// POIRecord - точка интереса, полученная из Place API. UID - единственный ключ уникальности.
// Lat/Lng хранятся в системе источника (GCJ-02) и могут отсутствовать.
type POIRecord struct {
	UID              string   `json:"uid" db:"uid"`
	Name             string   `json:"name" db:"name"`
	Address          string   `json:"address" db:"address"`
	Province         string   `json:"province" db:"province"`
	City             string   `json:"city" db:"city"`
	Area             string   `json:"area" db:"area"`
	Adcode           string   `json:"adcode" db:"adcode"`
	Lat              *float64 `json:"lat" db:"lat"`
	Lng              *float64 `json:"lng" db:"lng"`
	Type             string   `json:"type" db:"type"`
	Tag              string   `json:"tag" db:"tag"`
	ClassifiedPOITag string   `json:"classified_poi_tag" db:"classified_poi_tag"`
	Telephone        string   `json:"telephone" db:"telephone"`
	Detail           int      `json:"detail" db:"detail"`
	OverallRating    string   `json:"overall_rating" db:"overall_rating"`
	Price            string   `json:"price" db:"price"`
	ShopHours        string   `json:"shop_hours" db:"shop_hours"`
	Brand            string   `json:"brand" db:"brand"`
	ContentTag       string   `json:"content_tag" db:"content_tag"`
	SourceQuery      string   `json:"source_query" db:"source_query"`
}

// HasCoordinates - true, если у записи есть обе координаты
func (p *POIRecord) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// Properties возвращает все поля, кроме координат, для свойств GeoJSON
func (p *POIRecord) Properties() map[string]interface{} {
	return map[string]interface{}{
		"uid":                p.UID,
		"name":               p.Name,
		"address":            p.Address,
		"province":           p.Province,
		"city":               p.City,
		"area":               p.Area,
		"adcode":             p.Adcode,
		"type":               p.Type,
		"tag":                p.Tag,
		"classified_poi_tag": p.ClassifiedPOITag,
		"telephone":          p.Telephone,
		"detail":             p.Detail,
		"overall_rating":     p.OverallRating,
		"price":              p.Price,
		"shop_hours":         p.ShopHours,
		"brand":              p.Brand,
		"content_tag":        p.ContentTag,
		"source_query":       p.SourceQuery,
	}
}

// POIFilter - фильтр чтения из хранилища
type POIFilter struct {
	// SourceQuery - равенство по запросу, который породил запись; пусто - без фильтра
	SourceQuery string
	// WithCoordinates - только записи с обеими координатами
	WithCoordinates bool
}

// CategoryCount - строка гистограммы категорий
type CategoryCount struct {
	SourceQuery string `json:"source_query" db:"source_query"`
	Count       int    `json:"count" db:"count"`
}

// CacheKeyCategories - ключ гистограммы категорий в кеше экспортов
const CacheKeyCategories = "poi:categories"
