package cost

// Rates holds per-provider pricing configuration.
type Rates struct {
	Places    PlacesRate           `yaml:"places" mapstructure:"places"`
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
}

// PlacesRate holds Google Places API pricing (per call, USD).
type PlacesRate struct {
	TextSearch float64 `yaml:"text_search" mapstructure:"text_search"`
	Details    float64 `yaml:"details" mapstructure:"details"`
	Photo      float64 `yaml:"photo" mapstructure:"photo"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// PlacesSearch returns the cost of n text-search calls.
func (c *Calculator) PlacesSearch(n int) float64 {
	return float64(n) * c.rates.Places.TextSearch
}

// PlacesDetails returns the cost of n details calls.
func (c *Calculator) PlacesDetails(n int) float64 {
	return float64(n) * c.rates.Places.Details
}

// PlacesPhotos returns the cost of n photo media calls.
func (c *Calculator) PlacesPhotos(n int) float64 {
	return float64(n) * c.rates.Places.Photo
}

// EnrichmentPass estimates the cost of enriching n records, each needing one
// details call plus up to photosPer photo fetches.
func (c *Calculator) EnrichmentPass(n, photosPer int) float64 {
	return c.PlacesDetails(n) + c.PlacesPhotos(n*photosPer)
}

// Claude computes the cost for a Claude API call.
func (c *Calculator) Claude(model string, input, output int) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		// Places "Essentials" tier: per-1000 list prices divided out.
		Places: PlacesRate{
			TextSearch: 0.032,
			Details:    0.017,
			Photo:      0.007,
		},
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
	}
}
