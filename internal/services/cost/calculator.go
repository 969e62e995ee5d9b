package cost

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/matereview/internal/config"
)

type PricingTable struct {
	InputPricePerMillion  float64
	OutputPricePerMillion float64
}

// https://ai.google.dev/gemini-api/docs/pricing
var defaultPricing = map[config.AI]map[string]PricingTable{
	config.AIGemini: {
		string(config.ModelGeminiV25Pro):       {InputPricePerMillion: 1.25, OutputPricePerMillion: 10.00},
		string(config.ModelGeminiV25Flash):     {InputPricePerMillion: 0.30, OutputPricePerMillion: 2.50},
		string(config.ModelGeminiV25FlashLite): {InputPricePerMillion: 0.10, OutputPricePerMillion: 0.40},
	},
}

// Calculator estimates the USD cost of a completion from its token usage.
type Calculator struct {
	pricing map[config.AI]map[string]PricingTable
}

func NewCalculator() *Calculator {
	pricing := make(map[config.AI]map[string]PricingTable, len(defaultPricing))
	for provider, models := range defaultPricing {
		copied := make(map[string]PricingTable, len(models))
		for model, table := range models {
			copied[model] = table
		}
		pricing[provider] = copied
	}
	return &Calculator{pricing: pricing}
}

// EstimateCost returns 0 for unknown providers or models. Versioned model
// names such as "gemini-2.5-flash-001" use the longest known prefix.
func (c *Calculator) EstimateCost(provider config.AI, model string, inputTokens, outputTokens int) float64 {
	table, err := c.GetPricing(provider, model)
	if err != nil {
		return 0
	}

	inputCost := (float64(inputTokens) / 1_000_000) * table.InputPricePerMillion
	outputCost := (float64(outputTokens) / 1_000_000) * table.OutputPricePerMillion

	return inputCost + outputCost
}

func (c *Calculator) GetPricing(provider config.AI, model string) (PricingTable, error) {
	provider = config.AI(strings.ToLower(string(provider)))
	model = strings.ToLower(model)

	providerPricing, exists := c.pricing[provider]
	if !exists {
		return PricingTable{}, fmt.Errorf("provider %s not found", provider)
	}

	if table, exists := providerPricing[model]; exists {
		return table, nil
	}

	best := ""
	for name := range providerPricing {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return PricingTable{}, fmt.Errorf("model %s not found for provider %s", model, provider)
	}

	return providerPricing[best], nil
}

// AddPricing registers or replaces the prices of a model.
func (c *Calculator) AddPricing(provider config.AI, model string, table PricingTable) {
	provider = config.AI(strings.ToLower(string(provider)))
	model = strings.ToLower(model)

	if _, exists := c.pricing[provider]; !exists {
		c.pricing[provider] = make(map[string]PricingTable)
	}
	c.pricing[provider][model] = table
}
