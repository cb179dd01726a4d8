package tunable

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Table is a concurrent store of named tunable values.
type Table struct {
	values cmap.ConcurrentMap[string, *Value]
}

func NewTable() *Table {
	return &Table{values: cmap.New[*Value]()}
}

// Number returns the value registered under name, creating it with def if it
// does not exist yet. An existing value keeps its current setting.
func (t *Table) Number(name string, def float64) *Value {
	return t.values.Upsert(name, nil, func(exist bool, cur, _ *Value) *Value {
		if exist {
			return cur
		}
		return NewValue(def)
	})
}

// Set stores x under name, creating the entry if needed.
func (t *Table) Set(name string, x float64) {
	t.Number(name, x).Set(x)
}

// Get returns the current value for name.
func (t *Table) Get(name string) (float64, bool) {
	v, ok := t.values.Get(name)
	if !ok {
		return 0, false
	}
	return v.Value(), true
}

func (t *Table) Has(name string) bool {
	return t.values.Has(name)
}

func (t *Table) Remove(name string) {
	t.values.Remove(name)
}

// Keys returns the registered names in sorted order.
func (t *Table) Keys() []string {
	keys := t.values.Keys()
	sort.Strings(keys)
	return keys
}

// Snapshot copies every value at a single moment per key.
func (t *Table) Snapshot() map[string]float64 {
	out := make(map[string]float64, t.values.Count())
	for name, v := range t.values.Items() {
		out[name] = v.Value()
	}
	return out
}

func (t *Table) Len() int {
	return t.values.Count()
}
