// Package catalog populates the reference tables: built-in seed data and
// model discovery from an OpenAI-compatible endpoint. How records arrive is
// deliberately decoupled from how capacity is derived; the planner core only
// sees the resulting rows.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tokenserve/capacity-planner/internal/shared/models"
)

// Store is the write surface the catalog populates.
type Store interface {
	UpsertHardware(ctx context.Context, hw *models.HardwareProfile) error
	UpsertModelPerformance(ctx context.Context, perf *models.ModelPerformance) error
	UpsertServiceLevel(ctx context.Context, sl *models.ServiceLevel) error
	UpsertModelPricing(ctx context.Context, p *models.PricingRecord) error
	GetModelPricing(ctx context.Context, modelKey string) (*models.PricingRecord, error)
}

// ModelLister lists available models. *openai.Client satisfies this against
// any OpenAI-compatible serving endpoint.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// NewLister builds a model lister for an OpenAI-compatible endpoint.
func NewLister(baseURL, apiKey string) ModelLister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// ModelKey normalizes a model display name into a catalog key:
// "moonshotai/Kimi-K2-Thinking" becomes "moonshotai-kimi-k2-thinking".
func ModelKey(name string) string {
	key := nonKeyChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(key, "-")
}

// classifyModelType infers a coarse model type from the display name.
func classifyModelType(name string) string {
	switch {
	case strings.Contains(name, "VL"):
		return "Vision-Language"
	case strings.Contains(name, "Coder"):
		return "Code"
	case strings.Contains(name, "Thinking"):
		return "Thinking"
	case strings.Contains(name, "OCR"):
		return "OCR"
	default:
		return "Language"
	}
}

// providerOf extracts the provider prefix from a namespaced model name.
func providerOf(name string) string {
	if idx := strings.Index(name, "/"); idx > 0 {
		return name[:idx]
	}
	return ""
}

// Sync discovers models from the endpoint and registers any that have no
// pricing record yet, as category "free" with zero rates so an operator can
// fill prices in later. Existing records are never overwritten. Returns the
// number of newly registered models.
func Sync(ctx context.Context, store Store, lister ModelLister) (int, error) {
	list, err := lister.ListModels(ctx)
	if err != nil {
		return 0, fmt.Errorf("list models: %w", err)
	}

	added := 0
	for _, m := range list.Models {
		key := ModelKey(m.ID)
		if key == "" {
			continue
		}

		if _, err := store.GetModelPricing(ctx, key); err == nil {
			continue
		} else if !models.IsNotFound(err) {
			return added, err
		}

		record := &models.PricingRecord{
			ModelKey:  key,
			ModelName: m.ID,
			Category:  models.CategoryFree,
			Provider:  providerOf(m.ID),
			ModelType: classifyModelType(m.ID),
		}
		if record.Provider == "" {
			record.Provider = m.OwnedBy
		}

		if err := store.UpsertModelPricing(ctx, record); err != nil {
			return added, fmt.Errorf("register model %s: %w", key, err)
		}
		added++
		slog.Debug("registered model from catalog", "model", key)
	}

	return added, nil
}
