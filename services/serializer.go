package services

import "recipebox/models"

// ToDocument strips the sampling-only tags and numbers recipes 1..N in order.
// Ids are positional, so the same title can get a different id on the next run.
func ToDocument(recipes []models.NormalizedRecipe) *models.Document {
	doc := &models.Document{Recipes: make([]models.OutputRecipe, 0, len(recipes))}
	for i, r := range recipes {
		ingredients := make([]string, len(r.Ingredients))
		copy(ingredients, r.Ingredients)

		doc.Recipes = append(doc.Recipes, models.OutputRecipe{
			ID:              i + 1,
			Title:           r.Title,
			Description:     r.Description,
			Ingredients:     ingredients,
			IngredientsText: r.IngredientsText,
			Instructions:    r.Instructions,
			ThumbnailURL:    r.ThumbnailURL,
			Favorite:        r.Favorite,
		})
	}
	return doc
}
