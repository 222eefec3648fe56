package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sitedeck/sitedeck-go/internal/application/services"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/messaging"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger := newTestLogger(t)

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tc := database.NewTableCreator()
	require.NoError(t, tc.CreateSchema(db.DB))
	require.NoError(t, tc.SeedInitialContent(db.DB, "en"))

	repo := persistence.NewContentRepository(db.DB)
	broadcaster := messaging.NewUpdateBroadcaster(logger)
	contentService := services.NewContentService(repo, broadcaster, logger)
	h := NewContentHandlers(contentService, logger, newTestTracker())

	r := gin.New()
	r.GET("/api/v1/content", h.GetContentMap)
	r.GET("/api/v1/content/:key", h.GetContentRoot)
	r.PUT("/api/v1/content/:key", h.PutContentRoot)
	r.PUT("/api/v1/content/:key/field", h.PutContentField)
	r.POST("/api/v1/content/:key/toggle", h.PostQuickToggle)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetContentMapReturnsSeededRoots(t *testing.T) {
	r := newContentRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/content?lang=en", "")
	require.Equal(t, http.StatusOK, w.Code)

	var contentMap map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &contentMap))
	assert.Equal(t, "SiteDeck", contentMap["site_name"])
	assert.Contains(t, contentMap, "hero")
}

func TestGetContentRootMissingReturns404(t *testing.T) {
	r := newContentRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/content/no_such_root", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutContentRootRoundTrip(t *testing.T) {
	r := newContentRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/v1/content/hero",
		`{"value":{"title":"Launch","subtitle":"Now","ctas":[]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/content/hero", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entry struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "hero", entry.Key)
	assert.JSONEq(t, `{"title":"Launch","subtitle":"Now","ctas":[]}`, entry.Value)
}

func TestPutContentRootStoresScalarRaw(t *testing.T) {
	r := newContentRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/v1/content/site_name", `{"value":"New Name"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/content/site_name", "")
	var entry struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "New Name", entry.Value)
}

func TestPutContentFieldIsRootGranular(t *testing.T) {
	r := newContentRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/v1/content/hero",
		`{"value":{"title":"Welcome","subtitle":"Hi","ctas":[]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/content/hero/field",
		`{"field":"title","value":"Changed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/content/hero", "")
	var entry struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))

	// only the one field changed; siblings survive the write
	assert.JSONEq(t, `{"title":"Changed","subtitle":"Hi","ctas":[]}`, entry.Value)
}

func TestQuickToggleAbsentFieldWritesTrue(t *testing.T) {
	r := newContentRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/content/hero/toggle", `{"field":"visible"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Value bool `json:"value"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Value)

	w = doJSON(t, r, http.MethodPost, "/api/v1/content/hero/toggle", `{"field":"visible"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Value)
}

func TestPutContentRootRejectsMissingValue(t *testing.T) {
	r := newContentRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/v1/content/hero", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
