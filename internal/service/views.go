package service

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/paletteview/paletteview-server/internal/color"
	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/id"
	"github.com/paletteview/paletteview-server/internal/palette"
	"github.com/paletteview/paletteview-server/internal/render"
	"github.com/paletteview/paletteview-server/internal/sse"
	"github.com/paletteview/paletteview-server/internal/viewstate"
)

// ClientCounter reports how many clients display a view.
type ClientCounter interface {
	ViewClientCount(viewID string) int
}

// ViewEvents is what the view service needs from the event layer.
type ViewEvents interface {
	EventEmitter
	ClientCounter
	CloseView(viewID string)
}

// ViewConfig controls view sessions.
type ViewConfig struct {
	// IdleTimeout closes views nobody touched for this long. Zero disables
	// expiry.
	IdleTimeout time.Duration
	// Viewport is the default viewport size in pixels.
	Viewport Viewport
}

// View is a view session's id and state.
type View struct {
	ID       string
	State    viewstate.View
	Viewport Viewport
}

// Viewport is the pixel size a view is laid out at.
type Viewport struct {
	Width  int
	Height int
}

// CreateViewInput opens a view.
type CreateViewInput struct {
	Query url.Values
	// Zero uses the configured default.
	Width, Height int
}

// DraftUpdate edits the draft. Nil fields are left alone; Colors replaces
// the whole list and SetColor then edits one swatch.
type DraftUpdate struct {
	Name     *string
	BgColor  *string
	Colors   []string
	SetColor *ColorEdit
}

// ColorEdit replaces the draft swatch at Index.
type ColorEdit struct {
	Index int
	Color string
}

type viewSession struct {
	mu         sync.Mutex
	id         string
	resolver   *viewstate.Resolver
	fullscreen *viewstate.RemoteFullscreen
	viewport   Viewport
	lastSeen   time.Time
}

// ViewService holds open view sessions. Each session resolves its state
// against its own copy of the palette collection; saves go through the
// palette service so every session sees them on its next save.
type ViewService struct {
	palettes *PaletteService
	events   ViewEvents
	exporter *export.Exporter
	logger   *slog.Logger
	cfg      ViewConfig
	now      func() time.Time

	mu    sync.RWMutex
	views map[string]*viewSession

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewViewService creates a view service.
func NewViewService(palettes *PaletteService, events ViewEvents, exporter *export.Exporter, cfg ViewConfig, logger *slog.Logger) *ViewService {
	if cfg.Viewport.Width <= 0 {
		cfg.Viewport.Width = render.DefaultWidth
	}
	if cfg.Viewport.Height <= 0 {
		cfg.Viewport.Height = render.DefaultHeight
	}
	return &ViewService{
		palettes: palettes,
		events:   events,
		exporter: exporter,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		views:    make(map[string]*viewSession),
		stop:     make(chan struct{}),
	}
}

// Create opens a view resolved from the link query in input.
func (s *ViewService) Create(ctx context.Context, input CreateViewInput) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, err
	}

	viewID, err := id.Generate(id.PrefixView)
	if err != nil {
		return View{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate view id")
	}

	vp := Viewport{Width: input.Width, Height: input.Height}
	if vp.Width <= 0 {
		vp.Width = s.cfg.Viewport.Width
	}
	if vp.Height <= 0 {
		vp.Height = s.cfg.Viewport.Height
	}
	if limit := s.exporter.MaxDimension(); vp.Width > limit || vp.Height > limit {
		return View{}, domainerrors.Validationf("viewport must be at most %d pixels per side", limit)
	}

	sess := &viewSession{id: viewID, viewport: vp, lastSeen: s.now()}
	sess.fullscreen = viewstate.NewRemoteFullscreen(s.fullscreenRequester(viewID))

	log := s.logger.With("view_id", viewID)
	sess.resolver = viewstate.New(s.palettes.Collection(), viewstate.ParseQuery(input.Query), viewstate.Options{
		Navigator:  s.navigator(viewID, sess),
		Fullscreen: sess.fullscreen,
		Saver:      s.palettes,
		Logger:     log,
	})

	s.mu.Lock()
	s.views[viewID] = sess
	total := len(s.views)
	s.mu.Unlock()

	log.Info("view opened", "index", int(sess.resolver.Index()), "style", string(sess.resolver.Style()), "total_views", total)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// navigator turns a recomputed query into a view.replaced event. The
// resolver calls it with the session already locked.
func (s *ViewService) navigator(viewID string, sess *viewSession) viewstate.Navigator {
	return viewstate.NavigatorFunc(func(q url.Values) {
		if s.events == nil || sess.resolver == nil {
			return
		}
		r := sess.resolver
		s.events.EmitToView(viewID, sse.NewViewReplacedEvent(viewID, q.Encode(), int(r.Index()), string(r.Style())))
	})
}

// fullscreenRequester forwards fullscreen requests to the view's clients.
// With nobody connected there is no display to put in fullscreen.
func (s *ViewService) fullscreenRequester(viewID string) viewstate.Requester {
	return func(enter bool) bool {
		if s.events == nil || s.events.ViewClientCount(viewID) == 0 {
			return false
		}
		s.events.EmitToView(viewID, sse.NewFullscreenRequestEvent(viewID, enter))
		return true
	}
}

func (s *ViewService) session(viewID string) (*viewSession, error) {
	s.mu.RLock()
	sess, ok := s.views[viewID]
	s.mu.RUnlock()
	if !ok {
		return nil, domainerrors.NotFoundf("view %s not found", viewID)
	}
	return sess, nil
}

// with runs fn on the locked session and returns the resulting state.
func (s *ViewService) with(viewID string, fn func(sess *viewSession) error) (View, error) {
	sess, err := s.session(viewID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.resolver == nil {
		return View{}, domainerrors.NotFoundf("view %s not found", viewID)
	}
	sess.lastSeen = s.now()
	if fn != nil {
		if err := fn(sess); err != nil {
			return View{}, err
		}
	}
	return sess.snapshot(), nil
}

func (sess *viewSession) snapshot() View {
	return View{ID: sess.id, State: sess.resolver.Snapshot(), Viewport: sess.viewport}
}

// Exists reports whether viewID is open.
func (s *ViewService) Exists(viewID string) bool {
	_, err := s.session(viewID)
	return err == nil
}

// Count returns the number of open views.
func (s *ViewService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Get returns a view's state.
func (s *ViewService) Get(viewID string) (View, error) {
	return s.with(viewID, nil)
}

// Delete closes a view.
func (s *ViewService) Delete(viewID string) error {
	return s.close(viewID, "deleted")
}

func (s *ViewService) close(viewID, reason string) error {
	s.mu.Lock()
	sess, ok := s.views[viewID]
	delete(s.views, viewID)
	s.mu.Unlock()
	if !ok {
		return domainerrors.NotFoundf("view %s not found", viewID)
	}

	sess.mu.Lock()
	if sess.resolver != nil {
		sess.resolver.Close()
	}
	sess.mu.Unlock()

	if s.events != nil {
		s.events.EmitToView(viewID, sse.NewViewClosedEvent(viewID, reason))
		s.events.CloseView(viewID)
	}

	s.logger.Info("view closed", "view_id", viewID, "reason", reason)
	return nil
}

// SelectPalette selects the palette at i, clamped into the collection.
func (s *ViewService) SelectPalette(viewID string, i int) (View, error) {
	return s.with(viewID, func(sess *viewSession) error {
		sess.resolver.SelectPalette(i)
		return nil
	})
}

// SelectStyle switches the view to style.
func (s *ViewService) SelectStyle(viewID string, style domain.Style) (View, error) {
	return s.with(viewID, func(sess *viewSession) error {
		return sess.resolver.SelectStyle(style)
	})
}

// ToggleFullscreen asks the view's display to flip fullscreen. The state
// changes when the display reports back.
func (s *ViewService) ToggleFullscreen(viewID string) (View, error) {
	return s.with(viewID, func(sess *viewSession) error {
		return sess.resolver.ToggleFullscreen()
	})
}

// ReportFullscreen records the display's real fullscreen status.
func (s *ViewService) ReportFullscreen(viewID string, active bool) (View, error) {
	return s.with(viewID, func(sess *viewSession) error {
		sess.fullscreen.Report(active)
		return nil
	})
}

// SetPanelOpen shows or hides the side panel.
func (s *ViewService) SetPanelOpen(viewID string, open bool) (View, error) {
	return s.with(viewID, func(sess *viewSession) error {
		sess.resolver.SetPanelOpen(open)
		return nil
	})
}

// AddDraftColor appends a swatch to the draft.
func (s *ViewService) AddDraftColor(viewID string) (View, error) {
	return s.with(viewID, func(sess *viewSession) error {
		sess.resolver.Draft().AddColor()
		return nil
	})
}

// RemoveDraftColor removes swatch i from the draft. The last swatch stays.
func (s *ViewService) RemoveDraftColor(viewID string, i int) (View, error) {
	return s.with(viewID, func(sess *viewSession) error {
		d := sess.resolver.Draft()
		if i < 0 || i >= len(d.Colors) {
			return domainerrors.NotFoundf("draft has no color %d", i)
		}
		d.RemoveColor(i)
		return nil
	})
}

// UpdateDraft edits the draft. Colours are validated before anything
// changes.
func (s *ViewService) UpdateDraft(viewID string, upd DraftUpdate) (View, error) {
	if upd.Colors != nil && len(upd.Colors) == 0 {
		return View{}, domainerrors.Validation("draft must keep at least one color")
	}
	if upd.BgColor != nil {
		if _, err := color.Parse(*upd.BgColor); err != nil {
			return View{}, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid background color")
		}
	}
	for i, c := range upd.Colors {
		if _, err := color.Parse(c); err != nil {
			return View{}, domainerrors.Wrapf(err, domainerrors.CodeValidation, "invalid color %d", i)
		}
	}
	if upd.SetColor != nil {
		if _, err := color.Parse(upd.SetColor.Color); err != nil {
			return View{}, domainerrors.Wrapf(err, domainerrors.CodeValidation, "invalid color %d", upd.SetColor.Index)
		}
	}

	return s.with(viewID, func(sess *viewSession) error {
		d := sess.resolver.Draft()
		if upd.SetColor != nil {
			n := len(d.Colors)
			if upd.Colors != nil {
				n = len(upd.Colors)
			}
			if upd.SetColor.Index < 0 || upd.SetColor.Index >= n {
				return domainerrors.NotFoundf("draft has no color %d", upd.SetColor.Index)
			}
		}
		if upd.Name != nil {
			d.Name = *upd.Name
		}
		if upd.BgColor != nil {
			d.BgColor = *upd.BgColor
		}
		if upd.Colors != nil {
			d.Colors = slices.Clone(upd.Colors)
		}
		if upd.SetColor != nil {
			return d.SetColor(upd.SetColor.Index, upd.SetColor.Color)
		}
		return nil
	})
}

// SaveDraft saves the draft as a custom palette and selects it.
func (s *ViewService) SaveDraft(ctx context.Context, viewID string) (View, palette.AddResult, error) {
	var res palette.AddResult
	v, err := s.with(viewID, func(sess *viewSession) error {
		var err error
		res, err = sess.resolver.SaveDraft(ctx)
		return err
	})
	if err != nil {
		return View{}, palette.AddResult{}, err
	}
	return v, res, nil
}

// surface builds a render surface of the view as currently displayed.
func (v View) surface() *render.Surface {
	return render.NewSurface(render.Options{
		Width:      v.Viewport.Width,
		Height:     v.Viewport.Height,
		Palette:    v.State.Palette,
		Style:      v.State.Style,
		Fullscreen: v.State.Fullscreen,
		PanelOpen:  v.State.PanelOpen,
	})
}

// Export captures the view at w by h without its interactive chrome.
func (s *ViewService) Export(ctx context.Context, viewID string, w, h int) (export.Result, error) {
	v, err := s.Get(viewID)
	if err != nil {
		return export.Result{}, err
	}
	res, err := s.exporter.Export(ctx, export.SurfaceRegion{Surface: v.surface()}, w, h)
	if err != nil {
		return export.Result{}, err
	}
	s.logger.Info("view exported", "view_id", viewID, "width", w, "height", h, "bytes", len(res.PNG))
	return res, nil
}

// Render resolves a link query without opening a session and exports it at
// w by h. A palette decoded from the link is placed in a throwaway copy of
// the collection, never saved.
func (s *ViewService) Render(ctx context.Context, query url.Values, w, h int) (export.Result, error) {
	r := viewstate.New(s.palettes.Collection(), viewstate.ParseQuery(query), viewstate.Options{
		Logger: s.logger,
	})
	defer r.Close()

	st := r.Snapshot()
	v := View{State: st, Viewport: s.cfg.Viewport}
	v.State.Fullscreen = true
	return s.exporter.Export(ctx, export.SurfaceRegion{Surface: v.surface()}, w, h)
}

// Preview captures the view as displayed, chrome included.
func (s *ViewService) Preview(ctx context.Context, viewID string) (render.Frame, error) {
	v, err := s.Get(viewID)
	if err != nil {
		return render.Frame{}, err
	}
	return render.Encode(ctx, v.surface())
}

// Start runs idle expiry until Shutdown.
func (s *ViewService) Start() {
	if s.cfg.IdleTimeout <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(max(s.cfg.IdleTimeout/4, time.Second))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Sweep closes views idle for longer than the idle timeout.
func (s *ViewService) Sweep() int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.IdleTimeout)

	var expired []string
	s.mu.RLock()
	for viewID, sess := range s.views {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		// A connected display keeps its view alive.
		if idle && (s.events == nil || s.events.ViewClientCount(viewID) == 0) {
			expired = append(expired, viewID)
		}
	}
	s.mu.RUnlock()

	for _, viewID := range expired {
		_ = s.close(viewID, "expired")
	}
	if len(expired) > 0 {
		s.logger.Debug("expired idle views", "count", len(expired))
	}
	return len(expired)
}

// Shutdown stops expiry and closes every view.
func (s *ViewService) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()

	s.mu.RLock()
	ids := make([]string, 0, len(s.views))
	for viewID := range s.views {
		ids = append(ids, viewID)
	}
	s.mu.RUnlock()

	for _, viewID := range ids {
		_ = s.close(viewID, "shutdown")
	}
}
