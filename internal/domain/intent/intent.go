// Package intent defines the query-intent taxonomy used to shape retrieval
// breadth and domain balance.
package intent

// Category is a coarse classification of what the user is asking for.
type Category string

// The fixed five-category taxonomy.
const (
	// InventoryComplete asks for the full accommodation inventory
	// ("what apartments do you have?").
	InventoryComplete Category = "inventory_complete"
	// SpecificUnit asks about one named unit.
	SpecificUnit Category = "specific_unit"
	// FeatureInquiry asks about amenities or features.
	FeatureInquiry Category = "feature_inquiry"
	// PricingInquiry asks about rates.
	PricingInquiry Category = "pricing_inquiry"
	// General is the blended category: tourism, activities, or queries that
	// name both lodging and non-lodging concerns.
	General Category = "general"
)

// Categories lists every valid category, in table order.
func Categories() []Category {
	return []Category{InventoryComplete, SpecificUnit, FeatureInquiry, PricingInquiry, General}
}

// IsValid checks if the category is one of the taxonomy values.
func (c Category) IsValid() bool {
	switch c {
	case InventoryComplete, SpecificUnit, FeatureInquiry, PricingInquiry, General:
		return true
	}
	return false
}

// FallbackConfidence is the confidence assigned when classification fails.
const FallbackConfidence = 0.5

// QueryIntent is a transient per-query classification result. Never persisted.
type QueryIntent struct {
	Category   Category
	Confidence float64
	Reasoning  string
	// AvoidEntities are domain terms the premium classifier wants excluded
	// from the other domain's results. A relevance hint, not an enforcement
	// mechanism.
	AvoidEntities []string
}

// Fallback is the conservative default substituted on classification failure.
// Classification is an optimization, not a correctness requirement.
func Fallback() QueryIntent {
	return QueryIntent{Category: General, Confidence: FallbackConfidence, Reasoning: "fallback"}
}

// Message is one turn of conversation history passed to the classifier.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
