package diagnostics

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/domain"
)

// Handler handles diagnostics HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new diagnostics handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "diagnostics").Logger(),
	}
}

// HandleDiagnostics computes display indicators for one posted asset
func (h *Handler) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	var asset domain.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.service.Analyze(asset)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
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
