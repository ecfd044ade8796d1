package domain

// FeatureCollection - GeoJSON для фронтенда карты
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Geometry   PointGeometry          `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// PointGeometry - координаты в порядке [lng, lat]
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewFeatureCollection(features []Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}

func NewPointFeature(lng, lat float64, props map[string]interface{}) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   PointGeometry{Type: "Point", Coordinates: [2]float64{lng, lat}},
		Properties: props,
	}
}
