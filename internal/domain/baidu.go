package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RegionQuery - запрос к API административного деления
type RegionQuery struct {
	Keyword        string
	SubAdmin       int
	ExtensionsCode int
	APIKey         string
}

// RegionResponse - ответ API административного деления. Форма ответа нестабильна,
// поэтому тело хранится как есть.
type RegionResponse struct {
	Status  APIStatus
	Message string
	Raw     map[string]interface{}
}

// PlaceQuery - запрос к Place API v2 (/place/v2/search)
type PlaceQuery struct {
	Query     string
	Region    string
	CityLimit bool
	PageSize  int
	PageNum   int
	APIKey    string
}

type PlaceResponse struct {
	Status  APIStatus     `json:"status"`
	Message string        `json:"message"`
	Total   int           `json:"total"`
	Results []PlaceResult `json:"results"`
}

type PlaceResult struct {
	UID              FlexString     `json:"uid"`
	Name             FlexString     `json:"name"`
	Address          FlexString     `json:"address"`
	Province         FlexString     `json:"province"`
	City             FlexString     `json:"city"`
	Area             FlexString     `json:"area"`
	Adcode           FlexString     `json:"adcode"`
	Location         *PlaceLocation `json:"location"`
	Type             FlexString     `json:"type"`
	Tag              FlexString     `json:"tag"`
	ClassifiedPOITag FlexString     `json:"classified_poi_tag"`
	Telephone        FlexString     `json:"telephone"`
	Detail           FlexInt        `json:"detail"`
	DetailInfo       *PlaceDetail   `json:"detail_info"`
}

type PlaceLocation struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type PlaceDetail struct {
	OverallRating FlexString `json:"overall_rating"`
	Price         FlexString `json:"price"`
	ShopHours     FlexString `json:"shop_hours"`
	Brand         FlexString `json:"brand"`
	ContentTag    FlexString `json:"content_tag"`
}

// APIStatus - статус Baidu, приходит то числом, то строкой. 0 - успех.
type APIStatus int

// StatusMissing - в ответе нет поля status; такой ответ неуспешен
const StatusMissing APIStatus = -1

func (s *APIStatus) UnmarshalJSON(b []byte) error {
	var fs FlexString
	if err := fs.UnmarshalJSON(b); err != nil {
		return err
	}
	if fs == "" {
		*s = StatusMissing
		return nil
	}
	n, err := strconv.Atoi(string(fs))
	if err != nil {
		// нечисловой статус считаем ошибкой
		*s = StatusMissing
		return nil
	}
	*s = APIStatus(n)
	return nil
}

func (s APIStatus) OK() bool {
	return s == 0
}

// ParseAPIStatus разбирает статус из произвольного JSON-значения
func ParseAPIStatus(v interface{}) (APIStatus, bool) {
	switch t := v.(type) {
	case float64:
		return APIStatus(int(t)), true
	case json.Number:
		n, err := t.Int64()
		return APIStatus(n), err == nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return StatusMissing, true
		}
		return APIStatus(n), true
	default:
		return StatusMissing, false
	}
}

// FlexString принимает строку, число или bool
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(b))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexInt принимает число или строку с числом
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	var fs FlexString
	if err := fs.UnmarshalJSON(b); err != nil {
		return err
	}
	if fs == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(fs), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(n))
	return nil
}

// ToRecord приводит результат Place API к строке хранилища
func (r *PlaceResult) ToRecord(sourceQuery string) *POIRecord {
	rec := &POIRecord{
		UID:              r.UID.String(),
		Name:             r.Name.String(),
		Address:          r.Address.String(),
		Province:         r.Province.String(),
		City:             r.City.String(),
		Area:             r.Area.String(),
		Adcode:           r.Adcode.String(),
		Type:             r.Type.String(),
		Tag:              r.Tag.String(),
		ClassifiedPOITag: r.ClassifiedPOITag.String(),
		Telephone:        r.Telephone.String(),
		Detail:           int(r.Detail),
		SourceQuery:      sourceQuery,
	}
	if r.Location != nil {
		rec.Lat = r.Location.Lat
		rec.Lng = r.Location.Lng
	}
	if d := r.DetailInfo; d != nil {
		rec.OverallRating = d.OverallRating.String()
		rec.Price = d.Price.String()
		rec.ShopHours = d.ShopHours.String()
		rec.Brand = d.Brand.String()
		rec.ContentTag = d.ContentTag.String()
	}
	return rec
}
