package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/domain"
	"github.com/akarmiris/riskalloc/internal/emit"
)

// Handler handles analysis HTTP requests
type Handler struct {
	service *Service
	repo    *Repository
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(service *Service, repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// analysisRequest is the POST /api/analysis body. The embedded Params keep
// the knobs at the top level of the JSON object.
type analysisRequest struct {
	Assets []domain.Asset `json:"assets"`
	Params
}

// HandleAnalyze runs the pipeline on the posted assets and archives the run
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	run, err := h.service.Run(req.Assets, req.Params)
	if err != nil {
		h.writeError(w, statusForRunError(err), err.Error())
		return
	}
	run.Source = "api"

	if h.repo != nil {
		if err := h.repo.SaveRun(run); err != nil {
			h.log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to archive run")
			h.writeError(w, http.StatusInternalServerError, "Failed to archive run")
			return
		}
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleListRuns returns archived run summaries, newest first
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	summaries, err := h.repo.ListRuns(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs": summaries,
	})
}

// HandleGetRun returns one archived run with its full result set
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.repo.GetRun(id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			h.writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleDeleteRun removes an archived run
func (h *Handler) HandleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteRun(id); err != nil {
		if errors.Is(err, ErrRunNotFound) {
			h.writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleRunChart renders an archived run's allocation as a pie chart PNG
func (h *Handler) HandleRunChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.repo.GetRun(id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			h.writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	png, err := emit.AllocationPie(run.Results)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to render allocation chart")
		h.writeError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart response")
	}
}

// statusForRunError maps pipeline failures onto HTTP statuses: malformed
// input is the caller's fault (400), semantically impossible runs are
// unprocessable (422).
func statusForRunError(err error) int {
	if errors.Is(err, domain.ErrInvalidPortfolioWorth) ||
		errors.Is(err, domain.ErrZeroRisk) ||
		errors.Is(err, domain.ErrAllAssetsFailed) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
