package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceResult_ToRecord(t *testing.T) {
	raw := `{
		"uid": "abc",
		"name": "兰州牛肉面",
		"address": "城关区庆阳路",
		"province": "甘肃省",
		"city": "兰州市",
		"area": "城关区",
		"adcode": 620102,
		"location": {"lat": 36.0611, "lng": 103.8343},
		"detail": "1",
		"detail_info": {"overall_rating": 4.6, "price": "18.0", "brand": null}
	}`

	var r PlaceResult
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	rec := r.ToRecord("美食")
	assert.Equal(t, "abc", rec.UID)
	assert.Equal(t, "620102", rec.Adcode)
	assert.Equal(t, 1, rec.Detail)
	assert.Equal(t, "4.6", rec.OverallRating)
	assert.Equal(t, "18.0", rec.Price)
	assert.Equal(t, "", rec.Brand)
	assert.Equal(t, "美食", rec.SourceQuery)
	require.True(t, rec.HasCoordinates())
	assert.Equal(t, 36.0611, *rec.Lat)
	assert.Equal(t, 103.8343, *rec.Lng)
}

func TestPlaceResult_ToRecordWithoutLocation(t *testing.T) {
	var r PlaceResult
	require.NoError(t, json.Unmarshal([]byte(`{"uid":"x","name":"无坐标"}`), &r))

	rec := r.ToRecord("酒店")
	assert.False(t, rec.HasCoordinates())
	assert.Equal(t, 0, rec.Detail)
	assert.Empty(t, rec.OverallRating)
}

func TestAPIStatus_Unmarshal(t *testing.T) {
	cases := map[string]APIStatus{
		`{"status":0}`:     0,
		`{"status":"0"}`:   0,
		`{"status":302}`:   302,
		`{"status":"401"}`: 401,
		`{"status":"bad"}`: StatusMissing,
		`{"status":null}`:  StatusMissing,
		`{}`:               StatusMissing,
	}
	for raw, want := range cases {
		resp := PlaceResponse{Status: StatusMissing}
		require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
		assert.Equal(t, want, resp.Status, raw)
	}
}
