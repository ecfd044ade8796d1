package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RegionNode - узел сырого дерева административного деления.
// Leaf - район без потомков, Node - узел со списком потомков.
type RegionNode struct {
	Name     string       `json:"name"`
	Children []RegionNode `json:"children,omitempty"`
}

func Leaf(name string) RegionNode {
	return RegionNode{Name: name}
}

func Node(name string, children ...RegionNode) RegionNode {
	return RegionNode{Name: name, Children: children}
}

func (n RegionNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// RegionMap - каноническая иерархия Province -> City -> []District с сохранением порядка
type RegionMap struct {
	Provinces []Province
}

type Province struct {
	Name   string
	Cities []City
}

type City struct {
	Name      string
	Districts []string
}

// ResolveOptions - параметры разрешения иерархии регионов
type ResolveOptions struct {
	APIKey         string
	ForceRefresh   bool
	ExcludeHKMacau bool
	ExcludeTaiwan  bool
}

// RegionSelection - выбор пользователя; City/District могут быть "all" или пустыми
type RegionSelection struct {
	Province string
	City     string
	District string
}

// SelectAll - значение селектора "все города/районы"
const SelectAll = "all"

// FallbackRegions - встроенная иерархия на случай отсутствия ключа API
func FallbackRegions() *RegionMap {
	return &RegionMap{Provinces: []Province{
		{
			Name: "甘肃省",
			Cities: []City{
				{
					Name:      "兰州市",
					Districts: []string{"城关区", "七里河区", "西固区", "安宁区", "红古区", "永登县", "皋兰县", "榆中县"},
				},
			},
		},
	}}
}

func (m *RegionMap) IsEmpty() bool {
	return m == nil || len(m.Provinces) == 0
}

func (m *RegionMap) Province(name string) (*Province, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Provinces {
		if m.Provinces[i].Name == name {
			return &m.Provinces[i], true
		}
	}
	return nil, false
}

func (m *RegionMap) ProvinceNames() []string {
	names := make([]string, 0, len(m.Provinces))
	for _, p := range m.Provinces {
		names = append(names, p.Name)
	}
	return names
}

func (p *Province) City(name string) (*City, bool) {
	for i := range p.Cities {
		if p.Cities[i].Name == name {
			return &p.Cities[i], true
		}
	}
	return nil, false
}

func (c *City) HasDistrict(name string) bool {
	for _, d := range c.Districts {
		if d == name {
			return true
		}
	}
	return false
}

// MarshalJSON пишет упорядоченный объект {"省": {"市": ["区", ...]}}
func (m RegionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m.Provinces {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, p.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, c := range p.Cities {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, c.Name); err != nil {
				return nil, err
			}
			districts := c.Districts
			if districts == nil {
				districts = []string{}
			}
			b, err := json.Marshal(districts)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// UnmarshalJSON читает объект, сохраняя порядок ключей
func (m *RegionMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	provinces := make([]Province, 0)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("province %q: %w", name, err)
		}

		cities := make([]City, 0)
		for dec.More() {
			cityName, err := readKey(dec)
			if err != nil {
				return err
			}
			var districts []string
			if err := dec.Decode(&districts); err != nil {
				return fmt.Errorf("city %q: %w", cityName, err)
			}
			if districts == nil {
				districts = []string{}
			}
			cities = append(cities, City{Name: cityName, Districts: districts})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}

		provinces = append(provinces, Province{Name: name, Cities: cities})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	m.Provinces = provinces
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
