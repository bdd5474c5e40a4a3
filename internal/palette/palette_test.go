package palette

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/logger"
	"github.com/paletteview/paletteview-server/internal/store"
)

var twoBuiltins = []domain.Palette{
	{Name: "Mono", BgColor: "#000000", Colors: []string{"#ffffff"}},
	{Name: "Warm", BgColor: "#ffffff", Colors: []string{"#ff0000", "#ff8800"}},
}

func sunset() domain.Palette {
	return domain.Palette{Name: "Sunset", BgColor: "#fff5e6", Colors: []string{"#ff6b6b", "#f7b731"}}
}

func newTestStore(t *testing.T, kv store.KV) *Store {
	t.Helper()
	if kv == nil {
		kv = store.NewMemory()
	}
	return NewStore(kv, twoBuiltins, logger.Discard())
}

func persisted(t *testing.T, kv store.KV) []domain.Palette {
	t.Helper()
	raw, found, err := kv.Get(context.Background(), store.KeyCustomPalettes)
	require.NoError(t, err)
	require.True(t, found)
	var ps []domain.Palette
	require.NoError(t, json.Unmarshal([]byte(raw), &ps))
	return ps
}

func TestBundled(t *testing.T) {
	ps := Bundled()
	require.NotEmpty(t, ps)
	for _, p := range ps {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Colors)
	}
}

func TestLoadBundled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palettes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"palettes":[{"name":"x","bgColor":"#fff","colors":["#000"]}]}`), 0o600))

	ps, err := LoadBundled(path)
	require.NoError(t, err)
	assert.Len(t, ps, 1)

	require.NoError(t, os.WriteFile(path, []byte(`{"palettes":[{"name":"x","colors":[]}]}`), 0o600))
	_, err = LoadBundled(path)
	assert.Error(t, err)

	ps, err = LoadBundled("")
	require.NoError(t, err)
	assert.Equal(t, Bundled(), ps)
}

func TestInitialize_MergesPersisted(t *testing.T) {
	kv := store.NewMemory()
	raw, _ := json.Marshal([]domain.Palette{sunset()})
	require.NoError(t, kv.Set(context.Background(), store.KeyCustomPalettes, string(raw)))

	col := newTestStore(t, kv).Initialize(context.Background())
	assert.Equal(t, 3, col.Len())
	assert.Equal(t, 2, col.BuiltinLen())
	got, ok := col.At(2)
	require.True(t, ok)
	assert.True(t, got.Equal(sunset()))
}

func TestInitialize_MalformedFallsBackToBuiltins(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(context.Background(), store.KeyCustomPalettes, "{not json"))

	col := newTestStore(t, kv).Initialize(context.Background())
	assert.Equal(t, 2, col.Len())
}

type failingKV struct{ store.KV }

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func (failingKV) Update(context.Context, string, store.UpdateFunc) error {
	return errors.New("disk gone")
}

func TestInitialize_ReadFailureFallsBackToBuiltins(t *testing.T) {
	col := newTestStore(t, failingKV{store.NewMemory()}).Initialize(context.Background())
	assert.Equal(t, 2, col.Len())
}

func TestAddCustom_SunsetScenario(t *testing.T) {
	kv := store.NewMemory()
	s := newTestStore(t, kv)
	col := s.Initialize(context.Background())

	res, err := s.AddCustom(context.Background(), col, sunset())
	require.NoError(t, err)
	assert.Equal(t, AddResult{Index: 2, Status: StatusAdded, Persisted: []domain.Palette{sunset()}}, res)
	assert.Equal(t, 3, col.Len())

	ps := persisted(t, kv)
	require.Len(t, ps, 1)
	assert.True(t, ps[0].Equal(sunset()))
}

func TestAddCustom_Validation(t *testing.T) {
	kv := store.NewMemory()
	s := newTestStore(t, kv)
	col := s.Initialize(context.Background())

	for _, p := range []domain.Palette{
		{Name: "   ", BgColor: "#fff", Colors: []string{"#000"}},
		{Name: "", BgColor: "#fff", Colors: []string{"#000"}},
		{Name: "ok", BgColor: "#fff"},
	} {
		_, err := s.AddCustom(context.Background(), col, p)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	}

	assert.Equal(t, 2, col.Len())
	_, found, err := kv.Get(context.Background(), store.KeyCustomPalettes)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddCustom_TrimsName(t *testing.T) {
	s := newTestStore(t, nil)
	col := s.Initialize(context.Background())

	p := sunset()
	p.Name = "  Sunset  "
	res, err := s.AddCustom(context.Background(), col, p)
	require.NoError(t, err)

	got, _ := col.At(res.Index)
	assert.Equal(t, "Sunset", got.Name)
}

func TestAddCustom_ContentDedup(t *testing.T) {
	kv := store.NewMemory()
	s := newTestStore(t, kv)
	col := s.Initialize(context.Background())

	// Same content as a built-in, different name.
	dup := twoBuiltins[1].Clone()
	dup.Name = "Another name"
	res, err := s.AddCustom(context.Background(), col, dup)
	require.NoError(t, err)
	assert.Equal(t, AddResult{Index: 1, Status: StatusAlreadyExists}, res)
	assert.Equal(t, 2, col.Len())

	_, err = s.AddCustom(context.Background(), col, sunset())
	require.NoError(t, err)

	again := sunset()
	again.Name = "Sunset 2"
	res, err = s.AddCustom(context.Background(), col, again)
	require.NoError(t, err)
	assert.Equal(t, AddResult{Index: 2, Status: StatusAlreadyExists}, res)
	assert.Equal(t, 3, col.Len())
	assert.Len(t, persisted(t, kv), 1)
}

func TestAddCustom_PersistencePartition(t *testing.T) {
	kv := store.NewMemory()
	s := newTestStore(t, kv)
	col := s.Initialize(context.Background())

	colors := []string{"#111111", "#222222", "#333333", "#444444"}
	for i, c := range colors {
		_, err := s.AddCustom(context.Background(), col, domain.Palette{Name: "p", BgColor: "#ffffff", Colors: []string{c}})
		require.NoError(t, err)

		ps := persisted(t, kv)
		assert.Len(t, ps, col.Len()-col.BuiltinLen())
		assert.Len(t, ps, i+1)
		assert.Equal(t, col.Custom(), ps)
		for _, b := range twoBuiltins {
			for _, p := range ps {
				assert.False(t, p.Equal(b))
			}
		}
	}
}

func TestAddCustom_PersistsInMemoryEntries(t *testing.T) {
	kv := store.NewMemory()
	s := newTestStore(t, kv)
	col := s.Initialize(context.Background())

	shared := domain.Palette{Name: "Shared", BgColor: "#eeeeee", Colors: []string{"#123456"}}
	col.Append(shared)

	_, err := s.AddCustom(context.Background(), col, sunset())
	require.NoError(t, err)

	ps := persisted(t, kv)
	require.Len(t, ps, 2)
	assert.True(t, ps[0].Equal(shared))
	assert.True(t, ps[1].Equal(sunset()))
}

func TestAddCustom_MergesConcurrentSession(t *testing.T) {
	kv := store.NewMemory()
	s := newTestStore(t, kv)
	a := s.Initialize(context.Background())
	b := s.Initialize(context.Background())

	other := domain.Palette{Name: "Other", BgColor: "#101010", Colors: []string{"#abcdef"}}
	_, err := s.AddCustom(context.Background(), b, other)
	require.NoError(t, err)

	res, err := s.AddCustom(context.Background(), a, sunset())
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, res.Status)
	assert.Equal(t, 3, res.Index)

	ps := persisted(t, kv)
	require.Len(t, ps, 2)
	assert.True(t, ps[0].Equal(other))
	assert.True(t, ps[1].Equal(sunset()))
	assert.Equal(t, a.Custom(), ps)
}

func TestAddCustom_ConcurrentSameContent(t *testing.T) {
	kv := store.NewMemory()
	s := newTestStore(t, kv)
	a := s.Initialize(context.Background())
	b := s.Initialize(context.Background())

	_, err := s.AddCustom(context.Background(), b, sunset())
	require.NoError(t, err)

	renamed := sunset()
	renamed.Name = "Dusk"
	res, err := s.AddCustom(context.Background(), a, renamed)
	require.NoError(t, err)
	assert.Equal(t, AddResult{Index: 2, Status: StatusAlreadyExists, Persisted: []domain.Palette{sunset()}}, res)
	assert.Len(t, persisted(t, kv), 1)
}

func TestAddCustom_WriteFailure(t *testing.T) {
	s := newTestStore(t, failingKV{store.NewMemory()})
	col := NewCollection(twoBuiltins, nil)

	_, err := s.AddCustom(context.Background(), col, sunset())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
	assert.Equal(t, 2, col.Len())
}

func TestCollection(t *testing.T) {
	col := NewCollection(twoBuiltins, []domain.Palette{sunset()})

	assert.True(t, col.IsBuiltin(0))
	assert.True(t, col.IsBuiltin(1))
	assert.False(t, col.IsBuiltin(2))
	assert.False(t, col.IsBuiltin(-1))

	_, ok := col.At(3)
	assert.False(t, ok)

	assert.Equal(t, 2, col.IndexOf(sunset()))
	renamed := sunset()
	renamed.Name = "x"
	assert.Equal(t, -1, col.IndexOf(renamed))
	assert.Equal(t, 2, col.IndexOfContent(renamed))

	clone := col.Clone()
	clone.Append(renamed)
	assert.Equal(t, 3, col.Len())
	assert.Equal(t, 4, clone.Len())
}

func TestDraft(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, "", d.Name)
	assert.Equal(t, "#ffffff", d.BgColor)
	assert.Equal(t, []string{"#000000"}, d.Colors)

	// The last swatch cannot be removed.
	assert.False(t, d.RemoveColor(0))
	assert.Len(t, d.Colors, 1)

	d.AddColor()
	d.AddColor()
	assert.Equal(t, []string{"#000000", "#000000", "#000000"}, d.Colors)
	require.NoError(t, d.SetColor(1, "#ff0000"))
	assert.Error(t, d.SetColor(5, "#ff0000"))

	assert.True(t, d.RemoveColor(0))
	assert.Equal(t, []string{"#ff0000", "#000000"}, d.Colors)
	assert.False(t, d.RemoveColor(9))

	for i := 0; i < 5; i++ {
		d.RemoveColor(0)
	}
	assert.Len(t, d.Colors, 1)

	d.Name = "x"
	d.Reset()
	assert.Equal(t, Draft{Name: "", BgColor: "#ffffff", Colors: []string{"#cccccc"}}, d.Clone())
}
