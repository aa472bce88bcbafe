package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// HandleListHardware handles GET /v1/hardware
func (h *Handler) HandleListHardware(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.ListHardware(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HandleUpsertHardware handles PUT /v1/hardware/{name}
func (h *Handler) HandleUpsertHardware(w http.ResponseWriter, r *http.Request) {
	var hw models.HardwareProfile
	if err := json.NewDecoder(r.Body).Decode(&hw); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	hw.Name = chi.URLParam(r, "name")

	if hw.Name == "" || hw.MaxConcurrentRequests <= 0 || hw.PrefillTPS <= 0 || hw.DecodeTPS <= 0 {
		http.Error(w, "hardware profile requires a name and positive throughput figures", http.StatusBadRequest)
		return
	}

	if err := h.store.UpsertHardware(r.Context(), &hw); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hw)
}

// HandleListModels handles GET /v1/models with an optional ?category= filter
func (h *Handler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	switch category {
	case "", models.CategoryFree, models.CategoryPaid, models.CategoryFineTune:
	default:
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}

	records, err := h.store.ListModelPricing(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandlePricingStats handles GET /v1/models/stats
func (h *Handler) HandlePricingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetPricingStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleUpsertPricing handles PUT /v1/models/{key}/pricing. The previous
// record, if any, is archived to the pricing history by the store.
func (h *Handler) HandleUpsertPricing(w http.ResponseWriter, r *http.Request) {
	var p models.PricingRecord
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ModelKey = chi.URLParam(r, "key")

	switch p.Category {
	case models.CategoryFree, models.CategoryPaid, models.CategoryFineTune:
	default:
		http.Error(w, "category must be free, paid, or fine_tune", http.StatusBadRequest)
		return
	}
	if p.ModelName == "" {
		p.ModelName = p.ModelKey
	}

	if err := h.store.UpsertModelPricing(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpsertBenchmark handles PUT /v1/benchmarks
func (h *Handler) HandleUpsertBenchmark(w http.ResponseWriter, r *http.Request) {
	var perf models.ModelPerformance
	if err := json.NewDecoder(r.Body).Decode(&perf); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if perf.ModelKey == "" || perf.HardwareName == "" ||
		perf.MaxConcurrent <= 0 || perf.AvgResponseTimeMs <= 0 {
		http.Error(w, "benchmark requires model_key, hardware_name, and positive measurements", http.StatusBadRequest)
		return
	}

	if err := h.store.UpsertModelPerformance(r.Context(), &perf); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

// HandleListServiceLevels handles GET /v1/service-levels
func (h *Handler) HandleListServiceLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.store.ListServiceLevels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}
