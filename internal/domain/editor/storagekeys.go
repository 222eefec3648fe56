package editor

import "strings"

// ExtractStorageKeys walks any JSON-compatible value and collects every
// non-empty string stored under a key ending in "_key", recursing into nested
// objects and arrays. Used to decide which remote assets an item references.
func ExtractStorageKeys(value any) []string {
	var keys []string
	scanStorageKeys(value, &keys)
	return keys
}

// IsStorageKeyField reports whether a field name carries a storage reference.
func IsStorageKeyField(name string) bool {
	return strings.HasSuffix(name, storageKeySuffix)
}

func scanStorageKeys(value any, keys *[]string) {
	switch v := value.(type) {
	case Item:
		scanStorageKeys(map[string]any(v), keys)
	case map[string]any:
		for name, val := range v {
			if IsStorageKeyField(name) {
				if s, ok := val.(string); ok && s != "" {
					*keys = append(*keys, s)
				}
				continue
			}
			scanStorageKeys(val, keys)
		}
	case []any:
		for _, val := range v {
			scanStorageKeys(val, keys)
		}
	case []Item:
		for _, item := range v {
			scanStorageKeys(item, keys)
		}
	}
}
