package editor

import (
	"sort"
	"strings"
)

// FieldKind tags how a field should be edited.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldBool
	FieldIcon
	FieldEnum
	FieldListRef
	FieldImageRef
	FieldHidden
)

// FieldDescriptor is the resolved editing decision for one item field.
// Options carries the vocabulary for Icon and Enum fields; Template carries
// the narrowed template for nested lists.
type FieldDescriptor struct {
	Name     string
	Kind     FieldKind
	Options  []string
	Template Item
}

// EnumSet maps lower-case field names to their fixed selection vocabulary.
type EnumSet map[string][]string

// DefaultEnums covers the field names the admin forms select from a fixed
// vocabulary rather than free text.
var DefaultEnums = EnumSet{
	"type":    {"default", "outline", "ghost"},
	"variant": {"primary", "secondary", "accent"},
	"color":   {"blue", "green", "red", "yellow", "purple", "gray"},
}

// IconOptions is the reserved icon vocabulary offered for fields named icon.
var IconOptions = []string{
	"star", "heart", "check", "bolt", "shield", "globe",
	"book", "users", "phone", "mail", "map-pin", "arrow-right",
}

// ClassifyField resolves the editing decision for one field. Priority order:
// storage-key fields are hidden, boolean values get a toggle, a field named
// icon gets the icon selector, configured enum names get their selector,
// array values become a nested list with a narrowed template, image-looking
// names (src, logo, url, image, or containing image but not icon) get an
// upload control, everything else is plain text.
func ClassifyField(name string, value any, enums EnumSet, template Item) FieldDescriptor {
	if IsStorageKeyField(name) {
		return FieldDescriptor{Name: name, Kind: FieldHidden}
	}
	if _, ok := value.(bool); ok {
		return FieldDescriptor{Name: name, Kind: FieldBool}
	}
	lower := strings.ToLower(name)
	if lower == "icon" {
		return FieldDescriptor{Name: name, Kind: FieldIcon, Options: IconOptions}
	}
	if options, ok := enums[lower]; ok {
		return FieldDescriptor{Name: name, Kind: FieldEnum, Options: options}
	}
	if isArrayValue(value) {
		return FieldDescriptor{Name: name, Kind: FieldListRef, Template: narrowTemplate(template, name)}
	}
	if isImageField(lower) {
		return FieldDescriptor{Name: name, Kind: FieldImageRef}
	}
	return FieldDescriptor{Name: name, Kind: FieldText}
}

// ClassifyItem resolves descriptors for every field of an item, sorted by
// field name so form layout is deterministic.
func ClassifyItem(item Item, enums EnumSet, template Item) []FieldDescriptor {
	names := make([]string, 0, len(item))
	for name := range item {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptors := make([]FieldDescriptor, 0, len(names))
	for _, name := range names {
		descriptors = append(descriptors, ClassifyField(name, item[name], enums, template))
	}
	return descriptors
}

func isImageField(lower string) bool {
	if strings.Contains(lower, "icon") {
		return false
	}
	switch lower {
	case "src", "logo", "url", "image":
		return true
	}
	return strings.Contains(lower, "image")
}

// narrowTemplate extracts the first element of a template's array field to
// seed one nesting level down.
func narrowTemplate(template Item, name string) Item {
	if template == nil {
		return nil
	}
	switch arr := template[name].(type) {
	case []any:
		if len(arr) > 0 {
			if m, ok := arr[0].(map[string]any); ok {
				return Item(m)
			}
			if item, ok := arr[0].(Item); ok {
				return item
			}
		}
	case []Item:
		if len(arr) > 0 {
			return arr[0]
		}
	}
	return nil
}
