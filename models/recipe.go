package models

import (
	"encoding/json"
	"fmt"
)

// RawRecord is an unvalidated meal as returned by the remote API
type RawRecord map[string]string

// UnmarshalJSON accepts null and non-string values; nulls are dropped and
// anything else is kept as its JSON text.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	out := make(RawRecord, len(fields))
	for k, v := range fields {
		if string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		out[k] = string(v)
	}
	*r = out
	return nil
}

// Get returns the named field or an empty string
func (r RawRecord) Get(field string) string {
	return r[field]
}

// ID returns the remote identifier, if any
func (r RawRecord) ID() string {
	return r["idMeal"]
}

// IngredientField and MeasureField name the numbered slot fields (1-based)
func IngredientField(slot int) string { return fmt.Sprintf("strIngredient%d", slot) }
func MeasureField(slot int) string    { return fmt.Sprintf("strMeasure%d", slot) }

// NormalizedRecipe is the canonical shape built from a RawRecord.
// Category and Area only drive sampling and never reach the output.
type NormalizedRecipe struct {
	Title           string
	Description     string
	Ingredients     []string
	IngredientsText string
	Instructions    string
	ThumbnailURL    string
	Category        string
	Area            string
	Favorite        bool
}

// Usable reports whether the recipe is complete enough to seed
func (n *NormalizedRecipe) Usable() bool {
	return n.Title != "" && n.ThumbnailURL != "" && n.Instructions != "" && len(n.Ingredients) > 0
}

// OutputRecipe is a recipe as stored in the seed document and served by the backend
type OutputRecipe struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	IngredientsText string   `json:"ingredientsText"`
	Instructions    string   `json:"instructions"`
	ThumbnailURL    string   `json:"thumbnailUrl"`
	Favorite        bool     `json:"favorite"`
	IsUser          bool     `json:"isUser,omitempty"`
}

// Document is the persisted seed document
type Document struct {
	Recipes []OutputRecipe `json:"recipes"`
}
