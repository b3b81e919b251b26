package llm

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Dated snapshot IDs such as "gpt-4o-mini-2024-07-18" fall back to their
// base model.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	if base := trimSnapshotDate(modelID); base != modelID {
		if c, ok := modelCosts[base]; ok {
			return &c
		}
	}
	return nil
}

// trimSnapshotDate strips a trailing -YYYY-MM-DD.
func trimSnapshotDate(id string) string {
	const suffix = len("-2006-01-02")
	if len(id) <= suffix {
		return id
	}
	tail := id[len(id)-suffix:]
	if tail[0] != '-' || tail[5] != '-' || tail[8] != '-' {
		return id
	}
	for i, r := range tail {
		if i == 0 || i == 5 || i == 8 {
			continue
		}
		if r < '0' || r > '9' {
			return id
		}
	}
	return id[:len(id)-suffix]
}

// modelCosts covers the models the tutor is configured with by default and
// their common alternatives.
var modelCosts = map[string]ModelCost{
	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	// Anthropic
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	// Google (Gemini)
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
