package config

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-errors"
)

// StringTransformer rewrites an option value read from a provider before it
// is handed to the option's coercer. Command line values are not touched.
type StringTransformer func(string) (string, error)

func TrimSpace(value string) (string, error) {
	return strings.TrimSpace(value), nil
}

func ToLower(value string) (string, error) {
	return strings.ToLower(value), nil
}

// texts turns a provider value into the option text for each occurrence.
// Scalars give one text, lists one per element, nil elements are dropped.
func texts(v any) ([]string, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if item == nil {
				continue
			}
			s, err := text(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		if rv := reflect.ValueOf(vv); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			list := make([]any, rv.Len())
			for i := range list {
				list[i] = rv.Index(i).Interface()
			}
			return texts(list)
		}
		s, err := text(vv)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

func text(v any) (string, error) {
	switch vv := v.(type) {
	case string:
		return vv, nil
	case bool:
		// weak decoding would give "1" or "0"
		return strconv.FormatBool(vv), nil
	case map[string]any, []any:
		return "", errors.New("nested values cannot set an option", errors.CategoryValidation).
			WithTextCode("CONFIG_VALUE_NESTED")
	}

	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "value cannot be read as text").
			WithTextCode("CONFIG_VALUE_UNSUPPORTED")
	}
	return s, nil
}

func transform(values []string, transformers []StringTransformer) ([]string, error) {
	if len(transformers) == 0 {
		return values, nil
	}
	out := make([]string, len(values))
	for i, value := range values {
		for _, fn := range transformers {
			var err error
			if value, err = fn(value); err != nil {
				return nil, err
			}
		}
		out[i] = value
	}
	return out, nil
}
