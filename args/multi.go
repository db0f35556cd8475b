package args

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Multi is a repeatable option: every occurrence on the command line appends
// one value. The capacity comes from the field's `cap:"N"` tag; appending
// beyond it fails instead of truncating.
//
//	type Flags struct {
//	    Include Multi[string] `short:"I" cap:"8" help:"Include path"`
//	}
//
// Values set on the destination before parsing act as defaults and are
// replaced by the first occurrence.
type Multi[T any] struct {
	items    []T
	capacity int
}

// NewMulti returns a Multi bounded to capacity and holding initial. It
// panics when initial does not fit.
func NewMulti[T any](capacity int, initial ...T) Multi[T] {
	if capacity < 0 || len(initial) > capacity {
		panic(fmt.Sprintf("args: NewMulti: %d initial values exceed capacity %d", len(initial), capacity))
	}
	items := make([]T, 0, len(initial))
	items = append(items, initial...)
	return Multi[T]{items: items, capacity: capacity}
}

// Append stores v after the existing values. It fails when the accumulator
// is full. The zero Multi has no room until a parse binds it to its field's
// capacity.
func (m *Multi[T]) Append(v T) error {
	if len(m.items) >= m.capacity {
		return &CapacityError{Capacity: m.capacity}
	}
	m.items = append(m.items, v)
	return nil
}

// Len returns the number of stored values.
func (m Multi[T]) Len() int {
	return len(m.items)
}

// Cap returns the capacity, zero until bound.
func (m Multi[T]) Cap() int {
	return m.capacity
}

// Values returns a copy of the stored values in occurrence order.
func (m Multi[T]) Values() []T {
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// At returns the i-th value.
func (m Multi[T]) At(i int) T {
	return m.items[i]
}

// MarshalJSON encodes the values as a JSON array.
func (m Multi[T]) MarshalJSON() ([]byte, error) {
	if m.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.items)
}

// accumulator is how the parser drives a Multi without knowing T.
type accumulator interface {
	elemType() reflect.Type
	bind(capacity int)
	reset()
	push(v reflect.Value) error
	each(fn func(reflect.Value))
	size() int
}

func (m *Multi[T]) elemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (m *Multi[T]) bind(capacity int) {
	m.capacity = capacity
}

// reset drops the values without reusing their backing array, which may be
// shared with a copy of the defaults.
func (m *Multi[T]) reset() {
	m.items = nil
}

func (m *Multi[T]) push(v reflect.Value) error {
	return m.Append(v.Interface().(T))
}

func (m *Multi[T]) each(fn func(reflect.Value)) {
	for i := range m.items {
		fn(reflect.ValueOf(&m.items[i]).Elem())
	}
}

func (m *Multi[T]) size() int {
	return len(m.items)
}

// checkCapacity fails when a Multi field of dst already holds more values
// than its tag allows, so defaults cannot outgrow the bound.
func checkCapacity(table *Table, dst reflect.Value) error {
	for _, f := range table.Fields {
		if !f.Multi {
			continue
		}
		acc := dst.FieldByIndex(f.index).Addr().Interface().(accumulator)
		if acc.size() > f.Capacity {
			return &CapacityError{Field: f.Name, Capacity: f.Capacity}
		}
	}
	return nil
}

var accumulatorType = reflect.TypeOf((*accumulator)(nil)).Elem()
