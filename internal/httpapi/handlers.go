package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ironsheep/floorplan-sandbox/internal/analysis"
	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
	"github.com/ironsheep/floorplan-sandbox/internal/store"
)

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	SessionID string                       `json:"sessionId"`
	Rooms     map[string][]rooms.Detection `json:"rooms"`
	Sources   map[string]analysis.Source   `json:"sources"`
}

// ExportRequest carries the page image for an overlay export.
type ExportRequest struct {
	Thumbnail string `json:"thumbnail"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	// Analyze already validated req, so this only recovers the parsed values.
	classification, custom, _ := analysis.Validate(req)
	sources := make(map[string]string, len(resp.Sources))
	for id, src := range resp.Sources {
		sources[id] = string(src)
	}
	session := s.sessions.Save(store.Session{
		Classification:  classification,
		CustomRoomTypes: custom,
		Rooms:           resp.Rooms,
		Sources:         sources,
	})

	s.logger.Info("Analysis complete",
		"session_id", session.ID,
		"pages", len(req.Pages),
		"classification", classification)

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		SessionID: session.ID,
		Rooms:     resp.Rooms,
		Sources:   resp.Sources,
	})
}

func (s *Server) handleRoomTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"roomTypes": rooms.BaseTypes(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": s.sessions.List(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var edit rooms.Edit
	if err := decodeJSON(w, r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := edit.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := s.sessions.UpdateRoom(
		chi.URLParam(r, "id"),
		chi.URLParam(r, "pageID"),
		chi.URLParam(r, "roomID"),
		edit,
	)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	pageID := chi.URLParam(r, "pageID")
	dets, ok := session.Rooms[pageID]
	if !ok {
		s.writeFailure(w, r, fmt.Errorf("page %q: %w", pageID, store.ErrNotFound))
		return
	}

	data, _, err := imaging.DecodeDataURL(req.Thumbnail)
	if err != nil {
		writeError(w, http.StatusBadRequest, "thumbnail: "+err.Error())
		return
	}
	page, _, err := imaging.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "thumbnail: "+err.Error())
		return
	}

	out, err := imaging.EncodePNG(imaging.RenderOverlay(page, dets, s.overlay))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pageID+"-overlay.png"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
