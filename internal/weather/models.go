package weather

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Record is the historical high/low temperature for one city and month.
type Record struct {
	High int `json:"high" yaml:"high"`
	Low  int `json:"low" yaml:"low"`
}

// Table is a string-keyed mapping that remembers the order keys were loaded in.
// Tables are only populated while decoding a dataset and are read-only afterwards.
// A key that appears twice keeps its first position and its last value.
type Table[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// Months maps month name to record for a single city.
type Months = Table[Record]

// Cities maps city name to its monthly records.
type Cities = Table[Months]

// Dataset maps country name to its cities.
type Dataset = Table[Cities]

// UnmarshalJSON decodes a JSON object, replacing any previous contents.
func (t *Table[V]) UnmarshalJSON(b []byte) error {
	m := orderedmap.New[string, V]()
	if err := m.UnmarshalJSON(b); err != nil {
		return err
	}
	t.m = m
	return nil
}

// UnmarshalYAML decodes a YAML mapping, replacing any previous contents.
func (t *Table[V]) UnmarshalYAML(n *yaml.Node) error {
	m := orderedmap.New[string, V]()
	if err := m.UnmarshalYAML(n); err != nil {
		return err
	}
	t.m = m
	return nil
}

// Len returns the number of keys.
func (t Table[V]) Len() int {
	if t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Keys returns a copy of the keys in load order.
func (t Table[V]) Keys() []string {
	out := make([]string, 0, t.Len())
	if t.m == nil {
		return out
	}
	for p := t.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// SortedKeys returns the keys sorted ascending.
func (t Table[V]) SortedKeys() []string {
	out := t.Keys()
	sort.Strings(out)
	return out
}

// First returns the first key in load order.
func (t Table[V]) First() (string, V, bool) {
	if t.m != nil {
		if p := t.m.Oldest(); p != nil {
			return p.Key, p.Value, true
		}
	}
	var zero V
	return "", zero, false
}

func (t Table[V]) Get(k string) (V, bool) {
	if t.m == nil {
		var zero V
		return zero, false
	}
	return t.m.Get(k)
}

func (t Table[V]) Has(k string) bool {
	_, ok := t.Get(k)
	return ok
}

// each calls fn for every pair in load order.
func (t Table[V]) each(fn func(k string, v V)) {
	if t.m == nil {
		return
	}
	for p := t.m.Oldest(); p != nil; p = p.Next() {
		fn(p.Key, p.Value)
	}
}

// Stats summarises the size of a loaded dataset.
type Stats struct {
	Countries int `json:"countries"`
	Cities    int `json:"cities"`
	Records   int `json:"records"`
}

// CountStats walks the dataset once and totals every level.
func CountStats(d Dataset) Stats {
	s := Stats{Countries: d.Len()}
	d.each(func(_ string, cities Cities) {
		s.Cities += cities.Len()
		cities.each(func(_ string, months Months) {
			s.Records += months.Len()
		})
	})
	return s
}
