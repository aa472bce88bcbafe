package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tokenserve/capacity-planner/internal/planner/catalog"
	"github.com/tokenserve/capacity-planner/internal/planner/revenue"
	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// HandleCapacity handles POST /v1/capacity. The body is the full capacity
// key; the X-Cache-Hit header reports whether the result came from the memo.
func (h *Handler) HandleCapacity(w http.ResponseWriter, r *http.Request) {
	var key models.CapacityKey
	if err := json.NewDecoder(r.Body).Decode(&key); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, hit, err := h.capacity.GetOrCompute(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("X-Cache-Hit", fmt.Sprintf("%v", hit))
	writeJSON(w, http.StatusOK, res)
}

// ProjectionRequest is the body of POST /v1/projections. Hardware is
// optional: when omitted, the profile registered under hardware_name is
// used; an inline value lets callers project against unregistered hardware.
type ProjectionRequest struct {
	ModelKey     string                   `json:"model_key"`
	HardwareName string                   `json:"hardware_name"`
	Hardware     *models.HardwareProfile  `json:"hardware,omitempty"`
	Profile      models.ServiceProfile    `json:"profile"`
	Params       models.ServiceParameters `json:"params"`
}

// HandleProjection handles POST /v1/projections. The X-Approximated header
// reports whether the static ratio fallback was used instead of a derived
// capacity result.
func (h *Handler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pricing, err := h.store.GetModelPricing(r.Context(), req.ModelKey)
	if err != nil {
		writeError(w, err)
		return
	}

	var hardware models.HardwareProfile
	if req.Hardware != nil {
		hardware = *req.Hardware
		if hardware.Name == "" {
			hardware.Name = req.HardwareName
		}
	} else {
		stored, err := h.store.GetHardware(r.Context(), req.HardwareName)
		if err != nil {
			writeError(w, err)
			return
		}
		hardware = *stored
	}

	projection, err := h.revenue.Project(r.Context(), revenue.ProjectionInput{
		Pricing:  pricing,
		Profile:  req.Profile,
		Hardware: hardware,
		Params:   req.Params,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("X-Approximated", fmt.Sprintf("%v", projection.Approximated))
	writeJSON(w, http.StatusOK, projection)
}

// HandleCatalogSync handles POST /v1/catalog/sync
func (h *Handler) HandleCatalogSync(w http.ResponseWriter, r *http.Request) {
	if h.lister == nil {
		http.Error(w, "no catalog endpoint configured", http.StatusServiceUnavailable)
		return
	}

	// Sync writes through the same store the handlers read.
	store, ok := h.store.(catalog.Store)
	if !ok {
		http.Error(w, "store does not support catalog sync", http.StatusInternalServerError)
		return
	}

	added, err := catalog.Sync(r.Context(), store, h.lister)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"models_added": added})
}
