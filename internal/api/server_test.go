package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/palette"
	"github.com/paletteview/paletteview-server/internal/search"
	"github.com/paletteview/paletteview-server/internal/service"
	"github.com/paletteview/paletteview-server/internal/sse"
	"github.com/paletteview/paletteview-server/internal/store"
)

var testBuiltin = []domain.Palette{
	{Name: "Classic Primary", BgColor: "#ffffff", Colors: []string{"#e63946", "#f1c40f", "#1d3557"}},
	{Name: "Ocean Breeze", BgColor: "#0b2545", Colors: []string{"#13315c", "#8da9c4"}},
	{Name: "Forest Walk", BgColor: "#f4f1de", Colors: []string{"#283618", "#606c38"}},
}

type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithOptions(t, Options{})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()
	log := logger.Discard()

	kv := store.NewMemory()
	t.Cleanup(func() { _ = kv.Close() })

	idx, err := search.NewIndex(search.Options{Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	sseManager := sse.NewManager(log)
	ctx, cancel := context.WithCancel(context.Background())
	go sseManager.Start(ctx)
	t.Cleanup(func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		_ = sseManager.Shutdown(shutdownCtx)
		cancel()
	})

	if opts.Exporter == nil {
		opts.Exporter = export.New(export.Config{}, log)
	}

	palettes := service.NewPaletteService(palette.NewStore(kv, testBuiltin, log), idx, sseManager, log)
	require.NoError(t, palettes.Initialize(context.Background()))
	views := service.NewViewService(palettes, sseManager, opts.Exporter, service.ViewConfig{}, log)
	t.Cleanup(views.Shutdown)

	s := NewServer(&Services{
		Palettes: palettes,
		Views:    views,
		Search:   idx,
		Store:    kv,
	}, sseManager, opts, log)

	return &testServer{Server: s, api: humatest.Wrap(t, s.API())}
}

// envelope is a decoded success or error envelope.
type envelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	require.Equal(t, EnvelopeVersion, env.Version)
	return env
}

func (ts *testServer) openView(t *testing.T, query string) ViewResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/views", map[string]any{"query": query})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[ViewResponse](t, resp).Data
}

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[HealthResponse](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["storage"].Status)
	assert.Equal(t, "3 palettes indexed", env.Data.Components["search"].Message)
	assert.Equal(t, "no connected clients", env.Data.Components["sse"].Message)
}

func TestHealthCheck_NoServices(t *testing.T) {
	s := &Server{}
	out, err := s.handleHealthCheck(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "degraded", out.Body.Status)
}

func TestPalettes_List(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/palettes")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[ListPalettesResponse](t, resp)
	require.Len(t, env.Data.Palettes, 3)
	assert.Equal(t, uint64(3), env.Data.Total)
	assert.Equal(t, "Classic Primary", env.Data.Palettes[0].Name)
	assert.True(t, env.Data.Palettes[0].Builtin)
	assert.Equal(t, "classic-primary", env.Data.Palettes[0].Slug)
}

func TestPalettes_Search(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/palettes?q=ocean")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[ListPalettesResponse](t, resp)
	require.NotEmpty(t, env.Data.Palettes)
	assert.Equal(t, 1, env.Data.Palettes[0].Index)

	resp = ts.api.Get("/api/v1/palettes?color=%23606c38")
	env = decode[ListPalettesResponse](t, resp)
	require.Len(t, env.Data.Palettes, 1)
	assert.Equal(t, "Forest Walk", env.Data.Palettes[0].Name)

	resp = ts.api.Get("/api/v1/palettes?color=teal")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPalettes_GetAndDecode(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/palettes/1")
	require.Equal(t, http.StatusOK, resp.Code)
	got := decode[PaletteResponse](t, resp).Data
	assert.Equal(t, "Ocean Breeze", got.Name)
	require.NotEmpty(t, got.ShareCode)

	resp = ts.api.Post("/api/v1/palettes/decode", map[string]any{"code": got.ShareCode})
	require.Equal(t, http.StatusOK, resp.Code)
	decoded := decode[PaletteBody](t, resp).Data
	assert.Equal(t, PaletteBody{Name: "Ocean Breeze", BgColor: "#0b2545", Colors: []string{"#13315c", "#8da9c4"}}, decoded)

	resp = ts.api.Post("/api/v1/palettes/decode", map[string]any{"code": "not-a-code"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestPalettes_GetNotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/palettes/9")
	require.Equal(t, http.StatusNotFound, resp.Code)

	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestStyles_ListAndAttributes(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/styles")
	require.Equal(t, http.StatusOK, resp.Code)
	styles := decode[ListStylesResponse](t, resp).Data
	assert.Len(t, styles.Styles, 8)
	assert.Equal(t, "circles", styles.Default)

	resp = ts.api.Get("/api/v1/styles/circles/attributes?color=%23ff0000&index=2")
	require.Equal(t, http.StatusOK, resp.Code)
	attrs := decode[StyleAttributesResponse](t, resp).Data
	assert.Equal(t, "50px", attrs.CSS["width"])
	assert.Equal(t, "50%", attrs.CSS["border-radius"])
	assert.Equal(t, "12", attrs.CSS["z-index"])
	assert.Equal(t, "#ff0000", attrs.CSS["background-color"])

	resp = ts.api.Get("/api/v1/styles/squares/attributes")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[StyleAttributesResponse](t, resp).Data.CSS)

	resp = ts.api.Get("/api/v1/styles/circles/attributes?index=two")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestExport_Presets(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/export/presets")
	require.Equal(t, http.StatusOK, resp.Code)

	got := decode[ExportPresetsResponse](t, resp).Data
	assert.Len(t, got.Presets, 5)
	assert.Equal(t, "Full HD", got.Default.Label)
	assert.Equal(t, export.DefaultMaxDimension, got.MaxDimension)
}

func TestRender_ShareLink(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/render?palette=2&style=cubes&width=640&height=400")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Empty(t, resp.Header().Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	resp = ts.api.Get("/api/v1/render?width=9000&height=400")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCORS_Preflight(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/views", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	ts.ServeHTTP(resp, req)

	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}
