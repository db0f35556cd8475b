package args

import (
	"encoding"
	"errors"
	"reflect"
	"slices"
	"strconv"
	"time"
)

// coerce converts raw into a value of the field's leaf type.
func (f *Field) coerce(raw string) (reflect.Value, error) {
	out := reflect.New(f.leaf).Elem()

	switch f.Kind {
	case KindString:
		out.SetString(raw)
	case KindBool:
		switch raw {
		case "true":
			out.SetBool(true)
		case "false":
			out.SetBool(false)
		default:
			return out, f.coercionError(raw, "expected true or false", nil)
		}
	case KindInt:
		digits, base := intBase(raw)
		v, err := strconv.ParseInt(digits, base, f.leaf.Bits())
		if err != nil {
			return out, f.numError(raw, err)
		}
		out.SetInt(v)
	case KindUint:
		digits, base := intBase(raw)
		v, err := strconv.ParseUint(digits, base, f.leaf.Bits())
		if err != nil {
			return out, f.numError(raw, err)
		}
		out.SetUint(v)
	case KindFloat:
		v, err := strconv.ParseFloat(raw, f.leaf.Bits())
		if err != nil {
			return out, f.numError(raw, err)
		}
		out.SetFloat(v)
	case KindDuration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return out, f.coercionError(raw, "invalid duration", err)
		}
		out.SetInt(int64(v))
	case KindEnum:
		if !slices.Contains(f.Tags, raw) {
			return out, f.coercionError(raw, "must be one of "+quoteTags(f.Tags), nil)
		}
		out.SetString(raw)
	case KindText:
		u := out.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return out, f.coercionError(raw, err.Error(), err)
		}
	}
	return out, nil
}

// intBase strips an explicit 0x, 0o or 0b prefix, keeping any sign. All
// other text is decimal, leading zeros included.
func intBase(raw string) (string, int) {
	sign, rest := "", raw
	if rest != "" && (rest[0] == '-' || rest[0] == '+') {
		sign, rest = rest[:1], rest[1:]
	}
	if len(rest) > 2 && rest[0] == '0' && rest[2] != '-' && rest[2] != '+' {
		switch rest[1] {
		case 'x', 'X':
			return sign + rest[2:], 16
		case 'o', 'O':
			return sign + rest[2:], 8
		case 'b', 'B':
			return sign + rest[2:], 2
		}
	}
	return raw, 10
}

func (f *Field) numError(raw string, err error) error {
	reason := "invalid syntax"
	if errors.Is(err, strconv.ErrRange) {
		reason = "value out of range for " + f.leaf.Kind().String()
	}
	return f.coercionError(raw, reason, err)
}

func (f *Field) coercionError(raw, reason string, err error) error {
	return &CoercionError{
		Field:  f.Name,
		Text:   raw,
		Reason: reason,
		Err:    err,
	}
}

// assign coerces raw and writes it into the field of dst, a struct value.
// fresh is true for the first occurrence of a Multi field in one pass.
func (f *Field) assign(dst reflect.Value, raw string, fresh bool) error {
	fv := dst.FieldByIndex(f.index)
	v, err := f.coerce(raw)
	if err != nil {
		return err
	}

	switch {
	case f.Multi:
		acc := fv.Addr().Interface().(accumulator)
		acc.bind(f.Capacity)
		if fresh {
			acc.reset()
		}
		if err := acc.push(v); err != nil {
			return &CapacityError{Field: f.Name, Capacity: f.Capacity}
		}
	case f.Optional && fv.Kind() == reflect.Ptr:
		p := reflect.New(f.leaf)
		p.Elem().Set(v)
		fv.Set(p)
	case f.Optional:
		fv.Addr().Interface().(optionalValue).setValue(v)
	default:
		fv.Set(v)
	}
	return nil
}
