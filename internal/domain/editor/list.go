package editor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
)

// ListConfig carries the state and collaborators for a List.
type ListConfig struct {
	Value    string
	Template Item
	MaxItems int
	Folder   string
	Enums    EnumSet
	Pending  *PendingDeleteSet
	Remover  AssetRemover
	Uploader AssetUploader
	Logger   *slog.Logger
	OnChange func(serialized string)
}

// List manages an ordered collection of schema-less items backed by a
// JSON-encoded external value. The external value is the single source of
// truth: every mutation re-serializes the items and reports the new value
// through OnChange; durable persistence happens further up, at the content
// page level.
type List struct {
	items    []Item
	session  *Session
	template Item
	maxItems int
	enums    EnumSet
	remover  AssetRemover
	logger   *slog.Logger
	onChange func(serialized string)
}

func NewList(cfg ListConfig) *List {
	enums := cfg.Enums
	if enums == nil {
		enums = DefaultEnums
	}
	return &List{
		items:    ParseItems(cfg.Value),
		template: cfg.Template,
		maxItems: cfg.MaxItems,
		enums:    enums,
		remover:  cfg.Remover,
		logger:   cfg.Logger,
		onChange: cfg.OnChange,
		session: NewSession(SessionConfig{
			Template: cfg.Template,
			Folder:   cfg.Folder,
			Pending:  cfg.Pending,
			Remover:  cfg.Remover,
			Uploader: cfg.Uploader,
			Logger:   cfg.Logger,
		}),
	}
}

// ParseItems decodes a JSON-encoded item array. Malformed input and
// non-array values yield an empty list; an untouched or empty content field
// is expected, not an error.
func ParseItems(value string) []Item {
	if value == "" {
		return []Item{}
	}
	var raw []map[string]any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return []Item{}
	}
	items := make([]Item, 0, len(raw))
	for _, m := range raw {
		items = append(items, Item(m))
	}
	return items
}

// Items returns the current items. The slice is shared state and must not be
// mutated by callers.
func (l *List) Items() []Item { return l.items }

// Value returns the JSON-encoded external representation.
func (l *List) Value() string {
	data, err := json.Marshal(l.items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// SetValue replaces the items from a changed external value.
func (l *List) SetValue(value string) {
	l.items = ParseItems(value)
}

// CanAdd reports whether the list is below its item cap.
func (l *List) CanAdd() bool {
	return l.maxItems <= 0 || len(l.items) < l.maxItems
}

func (l *List) Editing() bool { return l.session.State() == StateEditing }

func (l *List) EditingIndex() int { return l.session.Index() }

func (l *List) Buffered() Item { return l.session.Buffered() }

// FieldDescriptors classifies every field of an item for form rendering,
// in deterministic name order.
func (l *List) FieldDescriptors(item Item) []FieldDescriptor {
	return ClassifyItem(item, l.enums, l.template)
}

// ToggleVisible flips an item's visibility. An absent field counts as
// visible. This is a one-click direct action, so it writes through
// immediately instead of opening an edit session.
func (l *List) ToggleVisible(index int) error {
	if index < 0 || index >= len(l.items) {
		return ErrIndexOutOfRange
	}
	visible := true
	if b, ok := l.items[index][visibleField].(bool); ok {
		visible = b
	}
	l.items[index][visibleField] = !visible
	l.publish()
	return nil
}

// Delete removes an item and issues fire-and-forget deletes for every
// storage key the item references, recursively. Callers are expected to have
// confirmed the action with the user.
func (l *List) Delete(ctx context.Context, index int) error {
	if index < 0 || index >= len(l.items) {
		return ErrIndexOutOfRange
	}
	removed := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.publish()
	l.removeAssets(ctx, ExtractStorageKeys(removed))
	return nil
}

// Reorder moves an item from one position to another.
func (l *List) Reorder(from, to int) error {
	if from < 0 || from >= len(l.items) || to < 0 || to >= len(l.items) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	item := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items, nil)
	copy(l.items[to+1:], l.items[to:])
	l.items[to] = item
	l.publish()
	return nil
}

// BeginAdd opens an edit session for a new item unless the list is capped.
func (l *List) BeginAdd() error {
	if !l.CanAdd() {
		return ErrListFull
	}
	return l.session.BeginAdd(l.items)
}

// BeginEdit opens an edit session for an existing item.
func (l *List) BeginEdit(index int) error {
	return l.session.BeginEdit(l.items, index)
}

// SetField updates one field of the in-progress item.
func (l *List) SetField(name string, value any) error {
	return l.session.SetField(name, value)
}

// UploadAsset uploads a file for an asset field of the in-progress item.
func (l *List) UploadAsset(ctx context.Context, field, filename string, data io.Reader) error {
	return l.session.UploadAsset(ctx, field, filename, data)
}

// Save commits the in-progress item into the list.
func (l *List) Save(ctx context.Context) error {
	items, err := l.session.Save(ctx, l.items)
	if err != nil {
		return err
	}
	l.items = items
	l.publish()
	return nil
}

// Cancel discards the in-progress item without touching the list.
func (l *List) Cancel(ctx context.Context) error {
	return l.session.Cancel(ctx)
}

func (l *List) publish() {
	if l.onChange != nil {
		l.onChange(l.Value())
	}
}

func (l *List) removeAssets(ctx context.Context, keys []string) {
	if l.remover == nil {
		return
	}
	for _, key := range keys {
		go func(k string) {
			if err := l.remover.RemoveAsset(ctx, k); err != nil && l.logger != nil {
				l.logger.Warn("Asset cleanup failed", "storageKey", k, "error", err)
			}
		}(key)
	}
}
