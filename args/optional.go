package args

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Optional carries two states: unset, or explicitly supplied with a value.
// The zero value is unset so callers can tell an omitted option from one
// given its zero value. Pointer fields (*int, *string, ...) behave the same
// way; Optional avoids the nil checks.
type Optional[T any] struct {
	set   bool
	value T
}

// Some returns an Optional that is set to v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

// Set updates the value and marks the option as present.
func (o *Optional[T]) Set(v T) {
	if o == nil {
		return
	}
	o.value = v
	o.set = true
}

// Unset clears the value.
func (o *Optional[T]) Unset() {
	if o == nil {
		return
	}
	var zero T
	o.value = zero
	o.set = false
}

// IsSet reports whether the option was supplied.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Value returns the stored value, the zero value when unset.
func (o Optional[T]) Value() T {
	return o.value
}

// ValueOK returns the stored value along with the IsSet flag.
func (o Optional[T]) ValueOK() (T, bool) {
	return o.value, o.set
}

// Or returns the stored value when set, otherwise def.
func (o Optional[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

func (o Optional[T]) String() string {
	if !o.set {
		return "<unset>"
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes an unset value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

type optionalValue interface {
	elemType() reflect.Type
	setValue(v reflect.Value)
	get() (reflect.Value, bool)
}

func (o *Optional[T]) elemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (o *Optional[T]) setValue(v reflect.Value) {
	o.Set(v.Interface().(T))
}

func (o *Optional[T]) get() (reflect.Value, bool) {
	return reflect.ValueOf(&o.value).Elem(), o.set
}

var optionalType = reflect.TypeOf((*optionalValue)(nil)).Elem()
