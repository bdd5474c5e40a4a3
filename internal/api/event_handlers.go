package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
)

// registerEventRoutes mounts the SSE stream on chi directly; huma does not
// model long-lived streams.
func (s *Server) registerEventRoutes() {
	if s.sseHandler == nil {
		return
	}
	s.router.Get("/api/v1/views/{id}/events", s.handleViewEvents)
}

func (s *Server) handleViewEvents(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "id")
	if !s.services.Views.Exists(viewID) {
		s.writeError(w, r, domainerrors.NotFoundf("view %s not found", viewID))
		return
	}
	s.sseHandler.ServeView(w, r, viewID)
}
