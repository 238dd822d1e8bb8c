package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"kiosk/internal/database"
	"kiosk/internal/export"
	"kiosk/internal/hours"
	"kiosk/internal/links"
	"kiosk/internal/metrics"
	"kiosk/internal/settings"
	"kiosk/internal/status"
)

// HoursResponse is the payload of GET /api/hours.
type HoursResponse struct {
	Timezone string      `json:"timezone"`
	Today    int         `json:"today"`
	Rows     []hours.Row `json:"rows"`
}

// CopyNotes are the texts shown after copying the address.
type CopyNotes struct {
	Success    string `json:"success"`
	Failure    string `json:"failure"`
	DurationMS int64  `json:"duration_ms"`
}

// StoreResponse is the payload of GET /api/store.
type StoreResponse struct {
	Name      string      `json:"name"`
	Address   string      `json:"address"`
	Links     links.Links `json:"links"`
	CopyNotes CopyNotes   `json:"copy_notes"`
	Year      int         `json:"year"`
}

// MapResponse is the payload of GET /api/map.
type MapResponse struct {
	ConsentRequired bool            `json:"consent_required"`
	Embed           *links.MapEmbed `json:"embed,omitempty"`
}

const (
	defaultTransitionLimit = 20
	maxTransitionLimit     = 200
)

// TransitionsResponse is the payload of GET /api/transitions.
type TransitionsResponse struct {
	Transitions []database.Transition `json:"transitions"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// handleStatus evaluates the schedule for this request.
// GET /api/status
func (s *HTTPServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, status.Evaluate(s.ticker.Evaluator()))
}

// GET /api/hours
func (s *HTTPServer) handleHours(w http.ResponseWriter, _ *http.Request) {
	ev := s.ticker.Evaluator()
	today := ev.Now().Day
	writeJSON(w, http.StatusOK, HoursResponse{
		Timezone: ev.Location().String(),
		Today:    today,
		Rows:     ev.Table(today),
	})
}

// GET /api/hours.xlsx
func (s *HTTPServer) handleHoursExport(w http.ResponseWriter, _ *http.Request) {
	ev := s.ticker.Evaluator()

	var buf bytes.Buffer
	if err := export.WriteHours(&buf, ev, ev.Now().Day); err != nil {
		s.logger.Error().Err(err).Msg("hours export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="oeffnungszeiten.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// GET /api/store
func (s *HTTPServer) handleStore(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StoreResponse{
		Name:    s.store.Name,
		Address: s.store.Address,
		Links:   links.Build(s.store),
		CopyNotes: CopyNotes{
			Success:    links.CopiedNote,
			Failure:    links.CopyFailedNote,
			DurationMS: links.CopyNoteDuration.Milliseconds(),
		},
		Year: s.now().In(s.ticker.Evaluator().Location()).Year(),
	})
}

// The embed is only handed out after the visitor agreed to load the map.
// GET /api/map?consent=true
func (s *HTTPServer) handleMap(w http.ResponseWriter, r *http.Request) {
	consent, _ := strconv.ParseBool(r.URL.Query().Get("consent"))
	if !consent {
		writeJSON(w, http.StatusOK, MapResponse{ConsentRequired: true})
		return
	}
	embed := links.Embed(s.store)
	writeJSON(w, http.StatusOK, MapResponse{Embed: &embed})
}

// GET /api/theme
func (s *HTTPServer) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	id := s.visitorID(w, r)
	res, err := s.settings.Load(r.Context(), id, prefersLight(r))
	if err != nil {
		s.logger.Error().Err(err).Str("visitor_id", id).Msg("load theme failed")
		writeError(w, http.StatusInternalServerError, "failed to load theme")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/theme
func (s *HTTPServer) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	theme, err := settings.ParseTheme(req.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := s.visitorID(w, r)
	res, err := s.settings.Set(r.Context(), id, theme)
	if err != nil {
		if errors.Is(err, settings.ErrInvalidTheme) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("visitor_id", id).Msg("save theme failed")
		writeError(w, http.StatusInternalServerError, "failed to save theme")
		return
	}
	metrics.IncThemeChange(string(res.Theme))
	writeJSON(w, http.StatusOK, res)
}

// POST /api/theme/toggle
func (s *HTTPServer) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	id := s.visitorID(w, r)
	res, err := s.settings.Toggle(r.Context(), id, prefersLight(r))
	if err != nil {
		s.logger.Error().Err(err).Str("visitor_id", id).Msg("toggle theme failed")
		writeError(w, http.StatusInternalServerError, "failed to toggle theme")
		return
	}
	metrics.IncThemeChange(string(res.Theme))
	writeJSON(w, http.StatusOK, res)
}

// GET /api/transitions?limit=N
func (s *HTTPServer) handleTransitions(w http.ResponseWriter, r *http.Request) {
	limit := defaultTransitionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxTransitionLimit)
	}

	items, err := s.transitions.RecentTransitions(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("load transitions failed")
		writeError(w, http.StatusInternalServerError, "failed to load transitions")
		return
	}
	if items == nil {
		items = []database.Transition{}
	}
	writeJSON(w, http.StatusOK, TransitionsResponse{Transitions: items})
}
