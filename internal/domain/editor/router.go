package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ContentWriter persists a complete root value to the content store.
type ContentWriter interface {
	WriteContent(ctx context.Context, rootKey string, value any) error
}

// Router maps dotted content keys ("root" or "root.field") onto a flat
// root-granular content map. Writes always replace the entire root value at
// the transport layer, even though callers edit single fields.
type Router struct {
	writer ContentWriter
}

func NewRouter(writer ContentWriter) *Router {
	return &Router{writer: writer}
}

// RootOf returns the root segment of a dotted key. Upload folders are
// derived from it so assets group by the content root that references them.
func RootOf(key string) string {
	root, _ := splitKey(key)
	return root
}

// Resolve reads the value addressed by key. Structured roots are parsed
// before indexing; any missing link resolves to nil rather than an error.
func (r *Router) Resolve(contentMap map[string]string, key string) any {
	root, sub := splitKey(key)
	raw, ok := contentMap[root]
	if !ok {
		return nil
	}
	parsed := parseValue(raw)
	if sub == "" {
		return parsed
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}
	return obj[sub]
}

// Save writes newValue at key. A sub-field write re-reads the root, parses
// it (malformed JSON degrades to an empty object), sets the one field with
// boolean coercion, and persists the whole root object. On success the local
// map is refreshed so subsequent reads see the committed state.
func (r *Router) Save(ctx context.Context, contentMap map[string]string, key string, newValue any) error {
	root, sub := splitKey(key)
	if sub == "" {
		return r.persist(ctx, contentMap, root, newValue)
	}
	obj := parseObject(contentMap[root])
	obj[sub] = coerceBoolean(obj[sub], newValue)
	return r.persist(ctx, contentMap, root, obj)
}

// QuickToggle flips a boolean sub-field and persists immediately, bypassing
// the full edit session. An absent field counts as false, so the first
// toggle writes literal true. Returns the new value.
func (r *Router) QuickToggle(ctx context.Context, contentMap map[string]string, key string) (bool, error) {
	root, sub := splitKey(key)
	if sub == "" {
		return false, fmt.Errorf("quick toggle requires a root.field key, got %q", key)
	}
	obj := parseObject(contentMap[root])
	current := false
	if b, ok := obj[sub].(bool); ok {
		current = b
	}
	obj[sub] = !current
	if err := r.persist(ctx, contentMap, root, obj); err != nil {
		return current, err
	}
	return !current, nil
}

// WrapObject presents a single object value as a one-element item list so
// the nested list editor serves object-typed fields too, with MaxItems set
// to 1 at the call site.
func WrapObject(value any) []Item {
	switch v := value.(type) {
	case Item:
		return []Item{v}
	case map[string]any:
		return []Item{Item(v)}
	}
	return []Item{}
}

// UnwrapObject reverses WrapObject when the edited list is written back.
func UnwrapObject(items []Item) any {
	if len(items) == 0 {
		return map[string]any{}
	}
	return map[string]any(items[0])
}

func (r *Router) persist(ctx context.Context, contentMap map[string]string, root string, value any) error {
	if err := r.writer.WriteContent(ctx, root, value); err != nil {
		return err
	}
	if s, ok := value.(string); ok {
		contentMap[root] = s
		return nil
	}
	if data, err := json.Marshal(value); err == nil {
		contentMap[root] = string(data)
	}
	return nil
}

func splitKey(key string) (root, sub string) {
	if i := strings.Index(key, "."); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

func parseValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}
	return raw
}

// parseObject parses raw as a JSON object, degrading to an empty object on
// malformed or non-object input.
func parseObject(raw string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return map[string]any{}
	}
	return obj
}

// coerceBoolean converts the literal strings "true" and "false" to real
// booleans when the existing field is boolean-typed.
func coerceBoolean(existing, newValue any) any {
	s, ok := newValue.(string)
	if !ok {
		return newValue
	}
	if _, isBool := existing.(bool); !isBool {
		return newValue
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return newValue
}
