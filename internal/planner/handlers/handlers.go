package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tokenserve/capacity-planner/internal/planner/catalog"
	"github.com/tokenserve/capacity-planner/internal/planner/revenue"
	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// Store is the reference-data surface the handlers read and write.
// *database.DB satisfies it.
type Store interface {
	ListHardware(ctx context.Context) ([]models.HardwareProfile, error)
	GetHardware(ctx context.Context, name string) (*models.HardwareProfile, error)
	UpsertHardware(ctx context.Context, hw *models.HardwareProfile) error
	ListModelPricing(ctx context.Context, category string) ([]models.PricingRecord, error)
	GetModelPricing(ctx context.Context, modelKey string) (*models.PricingRecord, error)
	UpsertModelPricing(ctx context.Context, p *models.PricingRecord) error
	GetPricingStats(ctx context.Context) (*models.PricingStats, error)
	UpsertModelPerformance(ctx context.Context, perf *models.ModelPerformance) error
	ListServiceLevels(ctx context.Context) ([]models.ServiceLevel, error)
}

// CapacityProvider is the memoized capacity lookup.
type CapacityProvider interface {
	GetOrCompute(ctx context.Context, key models.CapacityKey) (*models.CapacityResult, bool, error)
}

// Projector runs lifecycle projections.
type Projector interface {
	Project(ctx context.Context, in revenue.ProjectionInput) (*models.LifecycleProjection, error)
}

type Handler struct {
	store    Store
	capacity CapacityProvider
	revenue  Projector
	lister   catalog.ModelLister // nil when no catalog endpoint is configured
}

func New(store Store, capacity CapacityProvider, projector Projector, lister catalog.ModelLister) *Handler {
	return &Handler{
		store:    store,
		capacity: capacity,
		revenue:  projector,
		lister:   lister,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses: missing
// reference data is 404, unusable configuration is 400, the rest is 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case models.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case models.IsInvalidConfiguration(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
