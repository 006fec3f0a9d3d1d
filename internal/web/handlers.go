package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/justestif/moodtunes/internal/detect"
	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/playlist"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Handlers contains HTTP handlers for the detection API.
type Handlers struct {
	service *detect.Service
	logger  zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *detect.Service, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// TextRequest is the body of POST /api/mood/text.
type TextRequest struct {
	Text string `json:"text"`
}

// ExpressionsRequest is the body of POST /api/mood/expressions. Face
// defaults to true; the browser sends false when the model found no face.
type ExpressionsRequest struct {
	Face        *bool                 `json:"face,omitempty"`
	Expressions mood.ExpressionSignal `json:"expressions"`
}

// PlaylistResponse is the body of GET /api/playlist/{mood}.
type PlaylistResponse struct {
	Mood      mood.Mood        `json:"mood"`
	Content   []playlist.Entry `json:"content"`
	Available bool             `json:"available"`
}

// MoodsResponse is the body of GET /api/moods.
type MoodsResponse struct {
	Moods     []detect.MoodInfo `json:"moods"`
	Threshold float64           `json:"threshold"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DetectText handles POST /api/mood/text.
func (h *Handlers) DetectText(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.FromText(req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// DetectExpressions handles POST /api/mood/expressions.
func (h *Handlers) DetectExpressions(w http.ResponseWriter, r *http.Request) {
	var req ExpressionsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Face != nil && !*req.Face {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "no face detected"})
		return
	}

	resp, err := h.service.FromExpressions(req.Expressions)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Playlist handles GET /api/playlist/{mood}.
func (h *Handlers) Playlist(w http.ResponseWriter, r *http.Request) {
	m, err := mood.ParseMood(chi.URLParam(r, "mood"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	content, err := h.service.Playlist(m)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, PlaylistResponse{
		Mood:      m,
		Content:   content,
		Available: len(content) > 0,
	})
}

// Moods handles GET /api/moods.
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, MoodsResponse{
		Moods:     h.service.Moods(),
		Threshold: h.service.Threshold(),
	})
}

// decode reads a JSON body into dst, writing a 400 on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return false
	}
	return true
}

// writeError maps domain errors onto status codes.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mood.ErrEmptyText),
		errors.Is(err, mood.ErrEmptySignal),
		errors.Is(err, mood.ErrInvalidProbability),
		errors.Is(err, mood.ErrUnmappedLabel):
		status = http.StatusBadRequest
	case errors.Is(err, mood.ErrUnknownMood):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("Request failed")
		h.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to write response")
	}
}
