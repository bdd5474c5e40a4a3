// Package viewstate keeps the current view (palette, style, fullscreen)
// consistent with the palette collection and with the shareable link.
//
// A Resolver is not safe for concurrent use. Callers deliver one event at
// a time; fullscreen change callbacks must arrive on the same serialised
// path as user actions.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/palette"
	"github.com/paletteview/paletteview-server/internal/sharecode"
)

// Index is a position in the collection or one of the sentinels.
type Index int

// Index sentinels.
const (
	// None means there is nothing to select: the collection is empty.
	None Index = -1
	// Pending means a palette decoded from the link waits to be placed in
	// the collection. It never survives a Settle.
	Pending Index = -2
)

// Navigator receives the recomputed link query. Replace must overwrite the
// current location; it never adds a history entry.
type Navigator interface {
	Replace(query url.Values)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url.Values)

// Replace implements Navigator.
func (f NavigatorFunc) Replace(q url.Values) { f(q) }

// Saver persists custom palettes.
type Saver interface {
	AddCustom(ctx context.Context, col *palette.Collection, candidate domain.Palette) (palette.AddResult, error)
}

// Options configures a Resolver. Every field is optional.
type Options struct {
	Navigator  Navigator
	Fullscreen Fullscreen
	Saver      Saver
	Logger     *slog.Logger
	// Encode builds share codes; sharecode.Encode when nil.
	Encode func(domain.Palette) (string, error)
	// Decode parses share codes; sharecode.Decode when nil.
	Decode func(string) (domain.Palette, error)
}

// View is a snapshot of the resolved state.
type View struct {
	Index      Index
	Style      domain.Style
	Fullscreen bool
	PanelOpen  bool
	// Palette is set only when Index selects an entry.
	Palette  *domain.Palette
	Builtin  bool
	Query    url.Values
	Draft    palette.Draft
	Palettes int
}

// Resolver owns one view's state.
type Resolver struct {
	col        *palette.Collection
	index      Index
	pending    *domain.Palette
	style      domain.Style
	fullscreen bool
	panelOpen  bool
	draft      *palette.Draft
	rest       url.Values

	nav    Navigator
	fs     Fullscreen
	sub    Subscription
	saver  Saver
	logger *slog.Logger
	encode func(domain.Palette) (string, error)

	query   url.Values
	encoded string
	closed  bool
}

// New resolves the initial view of col from q.
//
// Selection precedence: the customData payload, then the palette index,
// then the first palette. A payload that fails to decode falls through to
// the first palette. A payload that decodes to a palette not fully equal
// to any entry leaves the index Pending until the settle that ends New.
func New(col *palette.Collection, q Query, opts Options) *Resolver {
	r := &Resolver{
		col:        col,
		style:      q.Style,
		fullscreen: q.Fullscreen,
		panelOpen:  true,
		draft:      palette.NewDraft(),
		rest:       q.Rest,
		nav:        opts.Navigator,
		fs:         opts.Fullscreen,
		saver:      opts.Saver,
		logger:     opts.Logger,
		encode:     opts.Encode,
	}
	if r.encode == nil {
		r.encode = sharecode.Encode
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.rest == nil {
		r.rest = url.Values{}
	}
	if !r.style.Valid() {
		r.style = domain.DefaultStyle()
	}
	decode := opts.Decode
	if decode == nil {
		decode = sharecode.Decode
	}

	r.index = r.initialIndex(q.Source, decode)

	if r.fs != nil {
		r.sub = r.fs.OnChange(r.onFullscreenChange)
	}

	r.Settle()
	return r
}

func (r *Resolver) initialIndex(src Source, decode func(string) (domain.Palette, error)) Index {
	first := Index(0)
	if r.col.Len() == 0 {
		first = None
	}

	switch s := src.(type) {
	case FullPayload:
		p, err := decode(s.Encoded)
		if err != nil {
			r.logger.Warn("ignoring undecodable customData", "error", err)
			return first
		}
		if i := r.col.IndexOf(p); i >= 0 {
			return Index(i)
		}
		r.pending = &p
		return Pending
	case IndexOnly:
		if i, ok := parseIndex(s.Raw); ok && i >= 0 && i < r.col.Len() {
			return Index(i)
		}
		return first
	default:
		return first
	}
}

// Settle brings the state back to its invariants and publishes the link
// if it changed. Every mutation ends with a Settle.
//
// A Pending index is resolved first: the held palette is selected if an
// equal entry exists by now, otherwise appended to the in-memory
// collection (never persisted) and selected. Then an index outside the
// collection is reset to 0, or None when the collection is empty.
func (r *Resolver) Settle() {
	if r.closed {
		return
	}

	if r.index == Pending {
		p := *r.pending
		r.pending = nil
		if i := r.col.IndexOf(p); i >= 0 {
			r.index = Index(i)
		} else {
			r.index = Index(r.col.Append(p))
		}
	}

	if n := r.col.Len(); r.index < 0 || int(r.index) >= n {
		if n > 0 {
			r.index = 0
		} else {
			r.index = None
		}
	}

	q := r.computeQuery()
	if enc := q.Encode(); enc != r.encoded || r.query == nil {
		r.query, r.encoded = q, enc
		if r.nav != nil {
			r.nav.Replace(cloneValues(q))
		}
	}
}

func (r *Resolver) computeQuery() url.Values {
	q := cloneValues(r.rest)

	if r.index >= 0 {
		i := int(r.index)
		if r.col.IsBuiltin(i) {
			q.Set(ParamPalette, strconv.Itoa(i))
		} else {
			p, _ := r.col.At(i)
			code, err := r.encode(p)
			if err != nil {
				r.logger.Error("encoding custom palette for link failed, using index", "index", i, "error", err)
				q.Set(ParamPalette, strconv.Itoa(i))
			} else {
				q.Set(ParamCustomData, code)
			}
		}
	}

	q.Set(ParamStyle, string(r.style))
	q.Set(ParamFullscreen, strconv.FormatBool(r.fullscreen))
	return q
}

// Current returns the selected palette. It is false when nothing is
// selected; callers render nothing palette-specific then.
func (r *Resolver) Current() (domain.Palette, bool) {
	if r.index < 0 {
		return domain.Palette{}, false
	}
	return r.col.At(int(r.index))
}

// Index returns the current index.
func (r *Resolver) Index() Index { return r.index }

// Style returns the current style.
func (r *Resolver) Style() domain.Style { return r.style }

// Fullscreen returns the displayed fullscreen status.
func (r *Resolver) Fullscreen() bool { return r.fullscreen }

// Collection returns the view's collection.
func (r *Resolver) Collection() *palette.Collection { return r.col }

// Query returns the current link query.
func (r *Resolver) Query() url.Values { return cloneValues(r.query) }

// SelectPalette selects index i. Out of range indices settle to 0 (or None).
func (r *Resolver) SelectPalette(i int) {
	r.index = Index(i)
	if r.index == Pending {
		// Pending is only ever entered from a decoded link.
		r.index = None
	}
	r.Settle()
}

// SelectStyle selects s. Unknown styles are rejected and change nothing.
func (r *Resolver) SelectStyle(s domain.Style) error {
	if !s.Valid() {
		return domainerrors.Validationf("unknown style %q", s)
	}
	r.style = s
	r.Settle()
	return nil
}

// ToggleFullscreen asks the platform to enter or leave fullscreen based on
// its real status. The displayed status follows the platform's change
// notifications, not the request; a rejected request leaves it reconciled
// with IsActive and is returned as an Unsupported error.
func (r *Resolver) ToggleFullscreen() error {
	if r.fs == nil {
		return domainerrors.Wrap(ErrUnsupported, domainerrors.CodeUnsupported, "fullscreen unavailable")
	}

	var err error
	if r.fs.IsActive() {
		err = r.fs.Exit()
	} else {
		err = r.fs.Enter()
	}
	if err != nil {
		r.logger.Warn("fullscreen request rejected", "error", err)
		r.fullscreen = r.fs.IsActive()
		r.Settle()
		if errors.Is(err, ErrUnsupported) {
			return domainerrors.Wrap(err, domainerrors.CodeUnsupported, "fullscreen request rejected")
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "fullscreen request failed")
	}
	return nil
}

func (r *Resolver) onFullscreenChange() {
	if r.closed {
		return
	}
	r.fullscreen = r.fs.IsActive()
	r.Settle()
}

// SetPanelOpen shows or hides the side panel.
func (r *Resolver) SetPanelOpen(open bool) { r.panelOpen = open }

// Draft returns the palette under construction for in-place edits.
func (r *Resolver) Draft() *palette.Draft { return r.draft }

// SaveDraft saves the draft as a custom palette and selects it (or the
// existing palette with the same content). On success the draft is reset
// and the panel closed; a validation failure changes nothing.
func (r *Resolver) SaveDraft(ctx context.Context) (palette.AddResult, error) {
	if r.saver == nil {
		return palette.AddResult{}, domainerrors.Unsupported("saving palettes is disabled")
	}
	res, err := r.saver.AddCustom(ctx, r.col, r.draft.Palette())
	if err != nil {
		return palette.AddResult{}, fmt.Errorf("save draft: %w", err)
	}

	r.index = Index(res.Index)
	r.draft.Reset()
	r.panelOpen = false
	r.Settle()
	return res, nil
}

// Snapshot returns a copy of the current state.
func (r *Resolver) Snapshot() View {
	v := View{
		Index:      r.index,
		Style:      r.style,
		Fullscreen: r.fullscreen,
		PanelOpen:  r.panelOpen,
		Query:      r.Query(),
		Draft:      r.draft.Clone(),
		Palettes:   r.col.Len(),
	}
	if p, ok := r.Current(); ok {
		v.Palette = &p
		v.Builtin = r.col.IsBuiltin(int(r.index))
	}
	return v
}

// Close tears down the fullscreen subscription. The resolver ignores
// events afterwards.
func (r *Resolver) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.sub != nil {
		r.sub.Unsubscribe()
		r.sub = nil
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
