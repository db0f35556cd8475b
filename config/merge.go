package config

// MergeSkippingEmpty is the koanf merge function used by every provider.
// A later source only replaces an earlier value when it carries something:
// nil, empty strings and empty lists are ignored, nested maps are merged key
// by key. A key the destination does not have yet is always taken.
func MergeSkippingEmpty(src, dest map[string]any) error {
	for k, v := range src {
		dv, ok := dest[k]
		if !ok {
			dest[k] = v
			continue
		}

		if sub, isMap := v.(map[string]any); isMap {
			if dsub, ok := dv.(map[string]any); ok {
				if err := MergeSkippingEmpty(sub, dsub); err != nil {
					return err
				}
				continue
			}
		}

		if carriesValue(v) {
			dest[k] = v
		}
	}

	return nil
}

func carriesValue(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case string:
		return vv != ""
	case []any:
		return len(vv) > 0
	default:
		return true
	}
}
