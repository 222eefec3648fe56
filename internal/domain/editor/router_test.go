package editor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu     sync.Mutex
	roots  []string
	values []any
	err    error
}

func (w *recordingWriter) WriteContent(ctx context.Context, rootKey string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.roots = append(w.roots, rootKey)
	w.values = append(w.values, value)
	return nil
}

func (w *recordingWriter) last() (string, any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.roots) == 0 {
		return "", nil
	}
	return w.roots[len(w.roots)-1], w.values[len(w.values)-1]
}

func TestRouterResolve(t *testing.T) {
	router := NewRouter(nil)
	contentMap := map[string]string{
		"site_name": "Acme",
		"hero":      `{"title":"T","subtitle":"S","ctas":[{"label":"Go"}]}`,
		"broken":    `{not json`,
	}

	assert.Equal(t, "Acme", router.Resolve(contentMap, "site_name"))
	assert.Equal(t, "T", router.Resolve(contentMap, "hero.title"))
	assert.Nil(t, router.Resolve(contentMap, "hero.missing"))
	assert.Nil(t, router.Resolve(contentMap, "absent"))
	assert.Nil(t, router.Resolve(contentMap, "absent.sub"))
	assert.Nil(t, router.Resolve(contentMap, "site_name.sub"))
	assert.Equal(t, `{not json`, router.Resolve(contentMap, "broken"))

	hero, ok := router.Resolve(contentMap, "hero").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "T", hero["title"])
}

func TestRouterSaveIsRootGranular(t *testing.T) {
	writer := &recordingWriter{}
	router := NewRouter(writer)
	contentMap := map[string]string{"hero": `{"title":"T","subtitle":"S"}`}

	require.NoError(t, router.Save(context.Background(), contentMap, "hero.subtitle", "S2"))

	root, value := writer.last()
	assert.Equal(t, "hero", root)
	assert.Equal(t, map[string]any{"title": "T", "subtitle": "S2"}, value)

	// local map reflects the committed root
	assert.JSONEq(t, `{"title":"T","subtitle":"S2"}`, contentMap["hero"])
}

func TestRouterSaveMalformedRootDegradesToEmptyObject(t *testing.T) {
	writer := &recordingWriter{}
	router := NewRouter(writer)
	contentMap := map[string]string{"hero": "{broken"}

	require.NoError(t, router.Save(context.Background(), contentMap, "hero.title", "New"))

	_, value := writer.last()
	assert.Equal(t, map[string]any{"title": "New"}, value)
}

func TestRouterSaveRootValue(t *testing.T) {
	writer := &recordingWriter{}
	router := NewRouter(writer)
	contentMap := map[string]string{}

	require.NoError(t, router.Save(context.Background(), contentMap, "site_name", "Acme"))

	root, value := writer.last()
	assert.Equal(t, "site_name", root)
	assert.Equal(t, "Acme", value)
	assert.Equal(t, "Acme", contentMap["site_name"])
}

func TestRouterBooleanCoercion(t *testing.T) {
	writer := &recordingWriter{}
	router := NewRouter(writer)
	contentMap := map[string]string{"hero": `{"featured":false,"title":"T"}`}

	require.NoError(t, router.Save(context.Background(), contentMap, "hero.featured", "true"))
	_, value := writer.last()
	assert.Equal(t, true, value.(map[string]any)["featured"])

	// string fields keep literal "true"
	require.NoError(t, router.Save(context.Background(), contentMap, "hero.title", "true"))
	_, value = writer.last()
	assert.Equal(t, "true", value.(map[string]any)["title"])
}

func TestRouterQuickToggleAbsentFieldWritesTrue(t *testing.T) {
	writer := &recordingWriter{}
	router := NewRouter(writer)
	contentMap := map[string]string{"hero": `{"title":"T"}`}

	result, err := router.QuickToggle(context.Background(), contentMap, "hero.featured")
	require.NoError(t, err)
	assert.True(t, result)

	_, value := writer.last()
	assert.Equal(t, true, value.(map[string]any)["featured"])

	result, err = router.QuickToggle(context.Background(), contentMap, "hero.featured")
	require.NoError(t, err)
	assert.False(t, result)

	_, err = router.QuickToggle(context.Background(), contentMap, "hero")
	assert.Error(t, err)
}

func TestWrapUnwrapObject(t *testing.T) {
	logo := map[string]any{"image": "/m/logo.png", "image_key": "global/logo"}

	wrapped := WrapObject(logo)
	require.Len(t, wrapped, 1)
	assert.Equal(t, "/m/logo.png", wrapped[0]["image"])

	assert.Empty(t, WrapObject(nil))
	assert.Empty(t, WrapObject("scalar"))

	assert.Equal(t, logo, UnwrapObject(wrapped))
	assert.Equal(t, map[string]any{}, UnwrapObject(nil))
}

func TestRootOf(t *testing.T) {
	assert.Equal(t, "hero", RootOf("hero.ctas"))
	assert.Equal(t, "hero", RootOf("hero"))
}

func TestHeroCTAEndToEnd(t *testing.T) {
	writer := &recordingWriter{}
	router := NewRouter(writer)
	contentMap := map[string]string{"hero": `{"ctas":[]}`}

	raw, _ := router.Resolve(contentMap, "hero.ctas").([]any)
	serialized := "[]"
	assert.Empty(t, raw)

	var saved string
	list := NewList(ListConfig{
		Value:    serialized,
		Template: Item{"label": "", "href": "", "primary": false},
		OnChange: func(s string) { saved = s },
	})

	require.NoError(t, list.BeginAdd())
	require.NoError(t, list.SetField("label", "Go"))
	require.NoError(t, list.SetField("href", "/x"))
	require.NoError(t, list.SetField("primary", true))
	require.NoError(t, list.Save(context.Background()))

	require.NoError(t, router.Save(context.Background(), contentMap, "hero.ctas", ParseItems(saved)))

	root, value := writer.last()
	assert.Equal(t, "hero", root)
	obj := value.(map[string]any)
	require.Len(t, obj, 1)
	ctas := obj["ctas"].([]Item)
	require.Len(t, ctas, 1)
	assert.Equal(t, Item{"label": "Go", "href": "/x", "primary": true}, ctas[0])
	assert.JSONEq(t, `{"ctas":[{"label":"Go","href":"/x","primary":true}]}`, contentMap["hero"])
}
