package args

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Assign writes textual values into dst, a pointer to an option struct,
// keyed by long option name. Values go through the same coercion as command
// line arguments: a Multi field is replaced by the listed values, any other
// field takes the last one. Unknown names fail with UnknownOptionError.
func Assign(dst any, values map[string][]string) error {
	table, target, err := structTarget(dst)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, ok := table.Lookup(name)
		if !ok {
			return &UnknownOptionError{Token: "--" + name}
		}
		for i, raw := range values[name] {
			if err := f.assign(target, raw, i == 0); err != nil {
				return err
			}
		}
	}
	return checkCapacity(table, target)
}

// Values returns the current option values of src keyed by long name. Unset
// optional fields are omitted, Multi fields become lists, and durations,
// enums and text values are rendered as strings so the result can be fed
// back through Assign.
func Values(src any) (map[string]any, error) {
	table, target, err := structTarget(src)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(table.Fields))
	for _, f := range table.Fields {
		v, ok := f.export(target.FieldByIndex(f.index))
		if ok {
			out[f.Name] = v
		}
	}
	return out, nil
}

func structTarget(v any) (*Table, reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Type().Elem().Kind() != reflect.Struct {
		return nil, reflect.Value{}, invalidOptionsType(reflect.TypeOf(v))
	}
	if rv.IsNil() {
		return nil, reflect.Value{}, nilDestination(rv.Type().Elem())
	}
	table, err := TableOf(rv.Type())
	if err != nil {
		return nil, reflect.Value{}, err
	}
	return table, rv.Elem(), nil
}

func (f *Field) export(fv reflect.Value) (any, bool) {
	switch {
	case f.Multi:
		list := []any{}
		fv.Addr().Interface().(accumulator).each(func(item reflect.Value) {
			list = append(list, f.exportLeaf(item))
		})
		return list, true
	case f.Optional && fv.Kind() == reflect.Ptr:
		if fv.IsNil() {
			return nil, false
		}
		return f.exportLeaf(fv.Elem()), true
	case f.Optional:
		inner, set := fv.Addr().Interface().(optionalValue).get()
		if !set {
			return nil, false
		}
		return f.exportLeaf(inner), true
	default:
		return f.exportLeaf(fv), true
	}
}

func (f *Field) exportLeaf(v reflect.Value) any {
	switch f.Kind {
	case KindString, KindEnum:
		return v.String()
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindUint:
		return v.Uint()
	case KindFloat:
		return v.Float()
	case KindDuration:
		return time.Duration(v.Int()).String()
	default:
		if m, ok := v.Interface().(encoding.TextMarshaler); ok {
			if text, err := m.MarshalText(); err == nil {
				return string(text)
			}
		}
		if v.CanAddr() {
			if m, ok := v.Addr().Interface().(encoding.TextMarshaler); ok {
				if text, err := m.MarshalText(); err == nil {
					return string(text)
				}
			}
		}
		return fmt.Sprint(v.Interface())
	}
}
