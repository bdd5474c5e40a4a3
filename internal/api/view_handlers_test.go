package api

import (
	"bytes"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/ratelimit"
	"github.com/paletteview/paletteview-server/internal/sharecode"
)

func TestViews_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t)

	v := ts.openView(t, "?palette=1&style=cubes&theme=dark")
	assert.True(t, strings.HasPrefix(v.ID, "view-"))
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, "cubes", v.Style)
	assert.True(t, v.Builtin)
	require.NotNil(t, v.Palette)
	assert.Equal(t, "Ocean Breeze", v.Palette.Name)
	assert.Equal(t, 3, v.Palettes)
	assert.Equal(t, ViewportBody{Width: 1280, Height: 800}, v.Viewport)

	q, err := url.ParseQuery(v.Query)
	require.NoError(t, err)
	assert.Equal(t, "1", q.Get("palette"))
	assert.Equal(t, "dark", q.Get("theme"))
	assert.Equal(t, "false", q.Get("fullscreen"))

	resp := ts.api.Get("/api/v1/views/" + v.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, v, decode[ViewResponse](t, resp).Data)
}

func TestViews_CreateRejectsHugeViewport(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/views", map[string]any{"width": 100000})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestViews_SelectPaletteAndStyle(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "")
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, "circles", v.Style)

	resp := ts.api.Put("/api/v1/views/"+v.ID+"/palette", map[string]any{"index": 2})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, decode[ViewResponse](t, resp).Data.Index)

	resp = ts.api.Put("/api/v1/views/"+v.ID+"/style", map[string]any{"style": "big-pills"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "big-pills", decode[ViewResponse](t, resp).Data.Style)

	resp = ts.api.Put("/api/v1/views/"+v.ID+"/style", map[string]any{"style": "squares"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestViews_UnknownView(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/views/view-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/views/view-missing/events")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[any](t, resp).Code)
}

func TestViews_FullscreenNeedsDisplay(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "")

	resp := ts.api.Post("/api/v1/views/" + v.ID + "/fullscreen/toggle")
	assert.Equal(t, http.StatusNotImplemented, resp.Code)
	assert.Equal(t, "UNSUPPORTED", decode[any](t, resp).Code)

	resp = ts.api.Post("/api/v1/views/"+v.ID+"/fullscreen/status", map[string]any{"active": true})
	require.Equal(t, http.StatusOK, resp.Code)
	got := decode[ViewResponse](t, resp).Data
	assert.True(t, got.Fullscreen)
	assert.Contains(t, got.Query, "fullscreen=true")
}

func TestViews_Panel(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "")

	resp := ts.api.Put("/api/v1/views/"+v.ID+"/panel", map[string]any{"open": true})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[ViewResponse](t, resp).Data.PanelOpen)
}

func TestDraft_EditAndSave(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "")
	base := "/api/v1/views/" + v.ID

	resp := ts.api.Post(base + "/draft/colors")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[ViewResponse](t, resp).Data.Draft.Colors, 2)

	resp = ts.api.Put(base+"/draft", map[string]any{
		"name":     "Sunset",
		"bgColor":  "#fff5e6",
		"colors":   []string{"#ff6b6b", "#000000"},
		"setColor": map[string]any{"index": 1, "color": "#f7b731"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	draft := decode[ViewResponse](t, resp).Data.Draft
	assert.Equal(t, DraftBody{Name: "Sunset", BgColor: "#fff5e6", Colors: []string{"#ff6b6b", "#f7b731"}}, draft)

	resp = ts.api.Post(base + "/draft/save")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	saved := decode[SaveDraftResponse](t, resp).Data
	assert.Equal(t, "added", saved.Result.Status)
	assert.Equal(t, 3, saved.Result.Index)
	assert.Equal(t, 3, saved.View.Index)
	assert.False(t, saved.View.Builtin)
	assert.False(t, saved.View.PanelOpen)

	q, err := url.ParseQuery(saved.View.Query)
	require.NoError(t, err)
	assert.Empty(t, q.Get("palette"))
	p, err := sharecode.Decode(q.Get("customData"))
	require.NoError(t, err)
	assert.Equal(t, "Sunset", p.Name)

	resp = ts.api.Get("/api/v1/palettes")
	assert.Len(t, decode[ListPalettesResponse](t, resp).Data.Palettes, 4)

	// Same colors from another view match the saved palette.
	other := ts.openView(t, "")
	ts.api.Put("/api/v1/views/"+other.ID+"/draft", map[string]any{
		"name":    "Sunset again",
		"bgColor": "#fff5e6",
		"colors":  []string{"#ff6b6b", "#f7b731"},
	})
	resp = ts.api.Post("/api/v1/views/" + other.ID + "/draft/save")
	require.Equal(t, http.StatusOK, resp.Code)
	again := decode[SaveDraftResponse](t, resp).Data
	assert.Equal(t, "already_exists", again.Result.Status)
	assert.Equal(t, 3, again.Result.Index)
}

func TestDraft_Validation(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "")
	base := "/api/v1/views/" + v.ID

	resp := ts.api.Put(base+"/draft", map[string]any{"colors": []string{"red"}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decode[map[string]any](t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.NotNil(t, env.Details)

	resp = ts.api.Delete(base + "/draft/colors/0")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"#000000"}, decode[ViewResponse](t, resp).Data.Draft.Colors)

	resp = ts.api.Delete(base + "/draft/colors/5")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Post(base + "/draft/save")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestViews_ExportDownload(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "palette=0")

	resp := ts.api.Post("/api/v1/views/"+v.ID+"/export", map[string]any{"width": 1280, "height": 720})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "palette-screenshot.png")
	assert.NotEmpty(t, resp.Header().Get("X-Blurhash"))

	img, err := png.Decode(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1152, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())

	resp = ts.api.Post("/api/v1/views/"+v.ID+"/export", map[string]any{"preset": "Portrait"})
	require.Equal(t, http.StatusOK, resp.Code)
	img, err = png.Decode(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1080, img.Bounds().Dx())

	resp = ts.api.Post("/api/v1/views/"+v.ID+"/export", map[string]any{"preset": "16K"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestViews_ExportRateLimited(t *testing.T) {
	limiter := ratelimit.PerMinute(1, 1)
	t.Cleanup(limiter.Stop)
	ts := setupTestServerWithOptions(t, Options{ExportLimiter: limiter})
	v := ts.openView(t, "")

	resp := ts.api.Post("/api/v1/views/"+v.ID+"/export", map[string]any{"width": 320, "height": 200})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/views/"+v.ID+"/export", map[string]any{"width": 320, "height": 200})
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decode[any](t, resp).Code)

	// Non-export routes are not throttled.
	resp = ts.api.Get("/api/v1/views/" + v.ID)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestViews_Preview(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "palette=1")

	resp := ts.api.Get("/api/v1/views/" + v.ID + "/preview")
	require.Equal(t, http.StatusOK, resp.Code)

	got := decode[PreviewResponse](t, resp).Data
	assert.NotEmpty(t, got.Blurhash)
	assert.Equal(t, 1280, got.Width)
	assert.Equal(t, 800, got.Height)
}

func TestViews_Delete(t *testing.T) {
	ts := setupTestServer(t)
	v := ts.openView(t, "")

	resp := ts.api.Delete("/api/v1/views/" + v.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "View closed", decode[MessageResponse](t, resp).Data.Message)

	resp = ts.api.Get("/api/v1/views/" + v.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
