package utils

import "math"

// Параметры эллипсоида Красовского, на котором построена GCJ-02
const (
	gcjSemiMajorAxis = 6378245.0
	gcjEccentricity2 = 0.00669342162296594323
)

// Прямоугольник, приближающий территорию Китая. Вне его смещение GCJ-02 не применяется.
const (
	chinaMinLng = 72.004
	chinaMaxLng = 137.8347
	chinaMinLat = 0.8293
	chinaMaxLat = 55.8271
)

// ValidateCoordinates проверяет, что широта и долгота лежат в допустимых пределах
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// OutOfChina сообщает, лежит ли точка вне зоны действия смещения
func OutOfChina(lng, lat float64) bool {
	return !(lng >= chinaMinLng && lng <= chinaMaxLng && lat >= chinaMinLat && lat <= chinaMaxLat)
}

// GCJ02ToWGS84 переводит координаты из GCJ-02 (ответы Baidu с ret_coordtype=gcj02ll) в WGS-84.
// Вне территории Китая возвращает вход без изменений.
func GCJ02ToWGS84(lng, lat float64) (float64, float64) {
	if OutOfChina(lng, lat) {
		return lng, lat
	}

	dLat := transformLat(lng-105.0, lat-35.0)
	dLng := transformLng(lng-105.0, lat-35.0)

	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - gcjEccentricity2*magic*magic
	sqrtMagic := math.Sqrt(magic)

	dLat = (dLat * 180.0) / ((gcjSemiMajorAxis * (1 - gcjEccentricity2)) / (magic * sqrtMagic) * math.Pi)
	dLng = (dLng * 180.0) / (gcjSemiMajorAxis / sqrtMagic * math.Cos(radLat) * math.Pi)

	mgLat := lat + dLat
	mgLng := lng + dLng

	return lng*2 - mgLng, lat*2 - mgLat
}

func transformLat(x, y float64) float64 {
	ret := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(y*math.Pi) + 40.0*math.Sin(y/3.0*math.Pi)) * 2.0 / 3.0
	ret += (160.0*math.Sin(y/12.0*math.Pi) + 320.0*math.Sin(y*math.Pi/30.0)) * 2.0 / 3.0
	return ret
}

func transformLng(x, y float64) float64 {
	ret := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(x*math.Pi) + 40.0*math.Sin(x/3.0*math.Pi)) * 2.0 / 3.0
	ret += (150.0*math.Sin(x/12.0*math.Pi) + 300.0*math.Sin(x/30.0*math.Pi)) * 2.0 / 3.0
	return ret
}
