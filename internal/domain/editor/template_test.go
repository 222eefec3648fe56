package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferItemFromExplicitTemplate(t *testing.T) {
	template := Item{
		"label":   "Learn more",
		"href":    "#",
		"primary": false,
		"links":   []any{map[string]any{"text": "a"}},
	}

	item := InferItem(template, nil)

	assert.Equal(t, Item{
		"label":   "Learn more",
		"href":    "#",
		"primary": false,
		"links":   []any{},
	}, item)

	// the template itself must stay untouched
	assert.Len(t, template["links"], 1)
}

func TestInferItemFromFirstItem(t *testing.T) {
	items := []Item{{
		"title":  "x",
		"tags":   []any{"a"},
		"active": true,
	}}

	item := InferItem(nil, items)

	assert.Equal(t, Item{
		"title":  "",
		"tags":   []any{},
		"active": true,
	}, item)
}

func TestInferItemSkipsReservedFields(t *testing.T) {
	items := []Item{{
		"title":     "x",
		"photo":     "/m/a.jpg",
		"photo_key": "about/01abc",
		"visible":   false,
		"order":     float64(3),
	}}

	item := InferItem(nil, items)

	assert.Equal(t, Item{
		"title": "",
		"photo": "",
		"order": float64(0),
	}, item)
}

func TestInferItemFallback(t *testing.T) {
	item := InferItem(nil, nil)
	assert.Equal(t, Item{"title": "", "description": ""}, item)
}
