package usecase

import (
	"sort"
	"strings"

	"github.com/poi-crawler/internal/domain"
)

var (
	nameKeys      = []string{"name", "fullname", "city", "province", "district", "text", "area_name", "title"}
	childKeys     = []string{"sub", "children", "districts", "sub_admin", "areas", "list", "items"}
	containerKeys = []string{"data", "result", "districts", "records", "list"}
	nestedKeys    = []string{"data", "result", "districts", "list", "province", "provinces"}

	// walkKeys - порядок обхода ключей объекта при поиске списка провинций;
	// остальные ключи идут после них в алфавитном порядке
	walkKeys = []string{
		"data", "result", "districts", "records", "list", "province", "provinces",
		"sub", "children", "sub_admin", "areas", "items",
	}
)

const (
	skipCityName     = "市辖区"
	directCityBucket = "省直辖县级行政区"
)

var municipalities = map[string]bool{
	"北京": true, "北京市": true,
	"天津": true, "天津市": true,
	"上海": true, "上海市": true,
	"重庆": true, "重庆市": true,
}

var hkMacau = map[string]bool{
	"香港特别行政区": true, "澳门特别行政区": true, "香港": true, "澳门": true,
}

var taiwan = map[string]bool{
	"台湾省": true, "台湾": true,
}

// nodeName возвращает первое непустое строковое значение из nameKeys
func nodeName(obj map[string]interface{}) string {
	for _, k := range nameKeys {
		if s, ok := obj[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// nodeChildren возвращает первый список из childKeys
func nodeChildren(obj map[string]interface{}) []interface{} {
	for _, k := range childKeys {
		if lst, ok := obj[k].([]interface{}); ok {
			return lst
		}
	}
	return nil
}

// looksLikeProvinceList: непустой список объектов, у max(5, len/3) из которых есть имя
func looksLikeProvinceList(lst []interface{}) bool {
	if len(lst) == 0 {
		return false
	}
	named := 0
	for _, it := range lst {
		obj, ok := it.(map[string]interface{})
		if !ok {
			return false
		}
		if nodeName(obj) != "" {
			named++
		}
	}
	threshold := len(lst) / 3
	if threshold < 5 {
		threshold = 5
	}
	return named >= threshold
}

// singleWrapper: список из одного именованного узла с потомками (например, [{"name":"中国","districts":[...]}])
func singleWrapper(lst []interface{}) ([]interface{}, bool) {
	if len(lst) != 1 {
		return nil, false
	}
	obj, ok := lst[0].(map[string]interface{})
	if !ok || nodeName(obj) == "" {
		return nil, false
	}
	children := nodeChildren(obj)
	if len(children) == 0 {
		return nil, false
	}
	return children, true
}

// ExtractProvinceList находит в ответе API список узлов верхнего уровня.
// Сначала известные контейнеры, затем обход всех списков в глубину.
// Пустой результат означает, что форма ответа не распознана.
func ExtractProvinceList(resp map[string]interface{}) []interface{} {
	for _, key := range containerKeys {
		switch val := resp[key].(type) {
		case []interface{}:
			if looksLikeProvinceList(val) {
				return val
			}
		case map[string]interface{}:
			for _, k2 := range nestedKeys {
				if lst, ok := val[k2].([]interface{}); ok && looksLikeProvinceList(lst) {
					return lst
				}
			}
		}
	}

	var found []interface{}
	walkLists(resp, func(lst []interface{}) bool {
		if children, ok := singleWrapper(lst); ok {
			found = children
			return true
		}
		if looksLikeProvinceList(lst) {
			found = lst
			return true
		}
		return false
	})
	return found
}

// walkLists обходит все списки в порядке: сам список, затем его элементы.
// visit возвращает true, чтобы остановить обход.
func walkLists(v interface{}, visit func([]interface{}) bool) bool {
	switch t := v.(type) {
	case []interface{}:
		if visit(t) {
			return true
		}
		for _, it := range t {
			if walkLists(it, visit) {
				return true
			}
		}
	case map[string]interface{}:
		for _, k := range orderedKeys(t) {
			if walkLists(t[k], visit) {
				return true
			}
		}
	}
	return false
}

func orderedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	seen := make(map[string]bool, len(walkKeys))
	for _, k := range walkKeys {
		if _, ok := obj[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(obj)-len(keys))
	for k := range obj {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// ParseRegionNodes переводит сырые объекты API в дерево RegionNode.
// Элементы, не являющиеся объектами, отбрасываются.
func ParseRegionNodes(raw []interface{}) []domain.RegionNode {
	nodes := make([]domain.RegionNode, 0, len(raw))
	for _, it := range raw {
		obj, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		nodes = append(nodes, parseRegionNode(obj))
	}
	return nodes
}

func parseRegionNode(obj map[string]interface{}) domain.RegionNode {
	name := nodeName(obj)
	children := nodeChildren(obj)
	if len(children) == 0 {
		return domain.Leaf(name)
	}
	return domain.Node(name, ParseRegionNodes(children)...)
}

// NormalizeOptions - фильтры нормализации
type NormalizeOptions struct {
	ExcludeHKMacau bool
	ExcludeTaiwan  bool
}

// NormalizeRegions приводит дерево к виду Province -> City -> []District.
// Функция чистая: одинаковый вход всегда дает одинаковый результат.
func NormalizeRegions(provinces []domain.RegionNode, opts NormalizeOptions) *domain.RegionMap {
	b := newRegionMapBuilder()

	for _, p := range provinces {
		if p.Name == "" {
			continue
		}
		if opts.ExcludeHKMacau && hkMacau[p.Name] {
			continue
		}
		if opts.ExcludeTaiwan && taiwan[p.Name] {
			continue
		}

		if municipalities[p.Name] {
			b.setProvince(p.Name, []domain.City{normalizeMunicipality(p)})
			continue
		}

		b.setProvince(p.Name, normalizeCities(p.Children))
	}

	return b.build()
}

// normalizeMunicipality сворачивает город-провинцию в один синтетический город.
// Узлы-листья верхнего уровня игнорируются: районами считаются только потомки второго уровня.
func normalizeMunicipality(p domain.RegionNode) domain.City {
	cityName := p.Name
	if !strings.HasSuffix(cityName, "市") {
		cityName += "市"
	}

	var districts []string
	for _, c := range p.Children {
		if c.IsLeaf() {
			continue
		}
		districts = appendDistrictNames(districts, c.Children)
	}

	return domain.City{Name: cityName, Districts: dedup(districts)}
}

func normalizeCities(children []domain.RegionNode) []domain.City {
	cities := newCityListBuilder()

	for _, c := range children {
		if c.Name == "" {
			continue
		}

		if c.Name == skipCityName {
			// "市辖区" заменяется своими потомками, которые складываются в корзину
			cities.appendDistricts(directCityBucket, districtNames(c.Children)...)
			continue
		}

		if !c.IsLeaf() {
			cities.set(c.Name, dedup(districtNames(c.Children)))
			continue
		}

		cities.appendDistricts(directCityBucket, c.Name)
	}

	return cities.build()
}

func districtNames(nodes []domain.RegionNode) []string {
	return appendDistrictNames(nil, nodes)
}

func appendDistrictNames(dst []string, nodes []domain.RegionNode) []string {
	for _, d := range nodes {
		if d.Name != "" && d.Name != skipCityName {
			dst = append(dst, d.Name)
		}
	}
	return dst
}

// dedup убирает повторы, сохраняя порядок первого появления
func dedup(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// regionMapBuilder - упорядоченная карта провинций; повторное имя заменяет значение на старом месте
type regionMapBuilder struct {
	index     map[string]int
	provinces []domain.Province
}

func newRegionMapBuilder() *regionMapBuilder {
	return &regionMapBuilder{index: make(map[string]int)}
}

func (b *regionMapBuilder) setProvince(name string, cities []domain.City) {
	if i, ok := b.index[name]; ok {
		b.provinces[i].Cities = cities
		return
	}
	b.index[name] = len(b.provinces)
	b.provinces = append(b.provinces, domain.Province{Name: name, Cities: cities})
}

func (b *regionMapBuilder) build() *domain.RegionMap {
	if b.provinces == nil {
		b.provinces = []domain.Province{}
	}
	return &domain.RegionMap{Provinces: b.provinces}
}

type cityListBuilder struct {
	index  map[string]int
	cities []domain.City
}

func newCityListBuilder() *cityListBuilder {
	return &cityListBuilder{index: make(map[string]int)}
}

func (b *cityListBuilder) set(name string, districts []string) {
	if i, ok := b.index[name]; ok {
		b.cities[i].Districts = districts
		return
	}
	b.index[name] = len(b.cities)
	b.cities = append(b.cities, domain.City{Name: name, Districts: districts})
}

func (b *cityListBuilder) appendDistricts(name string, districts ...string) {
	i, ok := b.index[name]
	if !ok {
		b.set(name, []string{})
		i = b.index[name]
	}
	b.cities[i].Districts = dedup(append(b.cities[i].Districts, districts...))
}

func (b *cityListBuilder) build() []domain.City {
	if b.cities == nil {
		return []domain.City{}
	}
	return b.cities
}
