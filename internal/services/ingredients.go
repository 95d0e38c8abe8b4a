package services

import (
	"encoding/json"
	"strings"

	"restaurant_backend/pkg/utils"
)

// IngredientRequirement is one (stock item name, per-unit quantity) pair
// resolved from a product's ingredient descriptor.
type IngredientRequirement struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ResolveIngredients decodes a product's stored ingredient descriptor into a
// list of requirements. Two encodings are accepted, and may be mixed within
// one descriptor:
//
//	["flour", "cheese"]
//	[{"name": "flour", "quantity": 2}, {"name": "cheese"}]
//
// A missing quantity defaults to 1. Malformed entries are dropped and logged,
// never surfaced: a broken descriptor must not block order processing.
func ResolveIngredients(descriptor *string) []IngredientRequirement {
	if descriptor == nil || strings.TrimSpace(*descriptor) == "" {
		return nil
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal([]byte(*descriptor), &rawEntries); err != nil {
		utils.LogWarn("Unparseable ingredient descriptor, resolving to empty list",
			map[string]interface{}{"descriptor": *descriptor})
		return nil
	}

	requirements := make([]IngredientRequirement, 0, len(rawEntries))
	for _, raw := range rawEntries {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				requirements = append(requirements, IngredientRequirement{Name: name, Quantity: 1})
			}
			continue
		}

		var entry IngredientRequirement
		if err := json.Unmarshal(raw, &entry); err != nil {
			utils.LogWarn("Dropping malformed ingredient descriptor entry",
				map[string]interface{}{"entry": string(raw)})
			continue
		}
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			utils.LogWarn("Dropping ingredient descriptor entry without a name",
				map[string]interface{}{"entry": string(raw)})
			continue
		}
		if entry.Quantity <= 0 {
			entry.Quantity = 1
		}
		requirements = append(requirements, entry)
	}
	return requirements
}
