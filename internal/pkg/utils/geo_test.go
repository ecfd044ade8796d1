package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCJ02ToWGS84(t *testing.T) {
	tests := []struct {
		name    string
		lng     float64
		lat     float64
		wantLng float64
		wantLat float64
	}{
		{"Beijing Tiananmen", 116.404, 39.915, 116.3977555008, 39.9135957185},
		{"Shanghai People's Square", 121.4737, 31.2304, 121.4691769407, 31.2323422624},
		{"Lanzhou", 103.8343, 36.0611, 103.8318968909, 36.0614272828},
		{"bounding box corner", 72.004, 0.8293, 72.0002908971, 0.8280372320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lng, lat := GCJ02ToWGS84(tt.lng, tt.lat)
			assert.InDelta(t, tt.wantLng, lng, 1e-7)
			assert.InDelta(t, tt.wantLat, lat, 1e-7)
		})
	}
}

func TestGCJ02ToWGS84_IdentityOutsideChina(t *testing.T) {
	points := [][2]float64{
		{-10, 50},
		{2.1734, 41.3851},
		{72.0039, 30},
		{137.8348, 30},
		{110, 0.8292},
		{110, 55.8272},
	}

	for _, p := range points {
		lng, lat := GCJ02ToWGS84(p[0], p[1])
		assert.Equal(t, p[0], lng)
		assert.Equal(t, p[1], lat)
	}
}

func TestOutOfChina(t *testing.T) {
	assert.True(t, OutOfChina(-10, 50))
	assert.False(t, OutOfChina(116.404, 39.915))
	assert.False(t, OutOfChina(chinaMinLng, chinaMinLat))
	assert.False(t, OutOfChina(chinaMaxLng, chinaMaxLat))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(39.9, 116.4))
	assert.False(t, ValidateCoordinates(91, 0))
	assert.False(t, ValidateCoordinates(0, -181))
	assert.True(t, ValidateCoordinates(-90, 180))
}
