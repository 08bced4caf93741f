package services

import (
	"strings"

	"recipebox/models"
	"recipebox/utils"
)

const (
	ingredientSlots      = 20
	descriptionSeparator = " • "
	ingredientsSeparator = " | "
	fallbackDescription  = "Recipe"
)

// Normalizer turns raw meals into usable, de-duplicated recipes
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize builds the canonical recipe for a single raw meal
func Normalize(r models.RawRecord) models.NormalizedRecipe {
	ingredients := collectIngredients(r)
	area := field(r, "strArea")
	category := field(r, "strCategory")

	return models.NormalizedRecipe{
		Title:           field(r, "strMeal"),
		Description:     describe(area, category),
		Ingredients:     ingredients,
		IngredientsText: strings.Join(ingredients, ingredientsSeparator),
		Instructions:    field(r, "strInstructions"),
		ThumbnailURL:    field(r, "strMealThumb"),
		Category:        category,
		Area:            area,
		Favorite:        false,
	}
}

// Clean normalizes every raw meal and keeps only the usable ones, in input order.
// Unusable meals are routine in the public dataset and are dropped without comment.
func (n *Normalizer) Clean(raw []models.RawRecord) []models.NormalizedRecipe {
	usable := make([]models.NormalizedRecipe, 0, len(raw))
	for _, r := range raw {
		if len(r) == 0 {
			continue
		}
		recipe := Normalize(r)
		if !recipe.Usable() {
			continue
		}
		usable = append(usable, recipe)
	}

	n.logger.Info("Normalized %d usable recipes from %d raw records", len(usable), len(raw))
	return usable
}

// Dedupe drops recipes whose title matches an earlier one, ignoring case.
// First seen wins and survivors keep their relative order.
func (n *Normalizer) Dedupe(recipes []models.NormalizedRecipe) []models.NormalizedRecipe {
	seen := utils.NewTitleSet()
	out := make([]models.NormalizedRecipe, 0, len(recipes))
	for _, r := range recipes {
		if !seen.Add(r.Title) {
			n.logger.Debug("Skipping duplicate: %s", r.Title)
			continue
		}
		out = append(out, r)
	}

	n.logger.Info("Kept %d unique recipes from %d", len(out), len(recipes))
	return out
}

// collectIngredients scans slots 1..20 in order
func collectIngredients(r models.RawRecord) []string {
	var out []string
	for i := 1; i <= ingredientSlots; i++ {
		ing := field(r, models.IngredientField(i))
		if ing == "" {
			continue
		}
		if meas := field(r, models.MeasureField(i)); meas != "" {
			out = append(out, ing+" - "+meas)
		} else {
			out = append(out, ing)
		}
	}
	return out
}

func describe(area, category string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{area, category} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fallbackDescription
	}
	return strings.Join(parts, descriptionSeparator)
}

func field(r models.RawRecord, name string) string {
	return strings.TrimSpace(r.Get(name))
}
