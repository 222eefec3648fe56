// Package editor implements the schema-less content editing core: storage key
// extraction, item template inference, single-item edit sessions, nested list
// management, and the dotted-key content field router.
package editor

import "errors"

// Item is a schema-less list item. Two field conventions are reserved: a
// boolean "visible" field (absent means visible) and, for any asset field F,
// a sibling "F_key" field holding the remote storage identifier.
type Item map[string]any

const (
	storageKeySuffix = "_key"
	visibleField     = "visible"
)

var (
	ErrNoActiveEdit    = errors.New("no active edit session")
	ErrEditInProgress  = errors.New("an edit session is already active")
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrListFull        = errors.New("list is at its maximum item count")
	ErrNoUploader      = errors.New("no asset uploader configured")
)

func cloneItem(item Item) Item {
	if item == nil {
		return nil
	}
	out := make(Item, len(item))
	for name, value := range item {
		out[name] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Item:
		return cloneItem(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for name, val := range v {
			out[name] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = cloneValue(val)
		}
		return out
	case []Item:
		out := make([]Item, len(v))
		for i, item := range v {
			out[i] = cloneItem(item)
		}
		return out
	default:
		return v
	}
}
