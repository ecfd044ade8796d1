package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionMap_JSONKeepsOrder(t *testing.T) {
	m := RegionMap{Provinces: []Province{
		{Name: "浙江省", Cities: []City{{Name: "杭州市", Districts: []string{"西湖区"}}}},
		{Name: "安徽省", Cities: []City{{Name: "合肥市", Districts: nil}}},
	}}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"浙江省":{"杭州市":["西湖区"]},"安徽省":{"合肥市":[]}}`, string(data))
	assert.Less(t, strings.Index(string(data), "浙江省"), strings.Index(string(data), "安徽省"))

	var back RegionMap
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"浙江省", "安徽省"}, back.ProvinceNames())
	assert.Equal(t, []string{}, back.Provinces[1].Cities[0].Districts)
}

func TestRegionMap_UnmarshalRejectsWrongShape(t *testing.T) {
	var m RegionMap
	assert.Error(t, json.Unmarshal([]byte(`[]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"省":["不是对象"]}`), &m))
}

func TestRegionMap_Lookup(t *testing.T) {
	m := FallbackRegions()

	p, ok := m.Province("甘肃省")
	require.True(t, ok)

	c, ok := p.City("兰州市")
	require.True(t, ok)
	assert.True(t, c.HasDistrict("榆中县"))
	assert.False(t, c.HasDistrict("朝阳区"))

	_, ok = m.Province("河北省")
	assert.False(t, ok)

	var empty *RegionMap
	assert.True(t, empty.IsEmpty())
}
