package editor

// InferItem derives the seed item for an "add" operation. An explicit
// template wins: it is cloned with every array field reset to empty, so the
// form still renders a nested-list control without inheriting the template's
// example rows. Without a template, the shape of the first existing item is
// used with type-preserving zero values. An empty list with no template
// falls back to a minimal title/description pair.
func InferItem(template Item, items []Item) Item {
	if template != nil {
		out := make(Item, len(template))
		for name, value := range template {
			if isArrayValue(value) {
				out[name] = []any{}
				continue
			}
			out[name] = cloneValue(value)
		}
		return out
	}

	if len(items) > 0 {
		out := Item{}
		for name, value := range items[0] {
			if name == visibleField || IsStorageKeyField(name) {
				continue
			}
			out[name] = zeroValueFor(value)
		}
		return out
	}

	return Item{"title": "", "description": ""}
}

func zeroValueFor(value any) any {
	if isArrayValue(value) {
		return []any{}
	}
	switch value.(type) {
	case bool:
		return true
	case float64, float32, int, int8, int16, int32, int64:
		return float64(0)
	default:
		return ""
	}
}

func isArrayValue(value any) bool {
	switch value.(type) {
	case []any, []Item:
		return true
	}
	return false
}
