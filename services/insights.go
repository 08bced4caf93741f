package services

import (
	"sort"

	"recipebox/models"
)

// CategoryBreakdown counts recipes per category, "Unknown" for untagged ones
func CategoryBreakdown(recipes []models.NormalizedRecipe) map[string]int {
	out := make(map[string]int)
	for _, r := range recipes {
		out[categoryOf(r)]++
	}
	return out
}

type categoryCount struct {
	name  string
	count int
}

// sortedCategories orders by count descending, then name
func sortedCategories(by map[string]int) []categoryCount {
	cats := make([]categoryCount, 0, len(by))
	for name, n := range by {
		cats = append(cats, categoryCount{name, n})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].count != cats[j].count {
			return cats[i].count > cats[j].count
		}
		return cats[i].name < cats[j].name
	})
	return cats
}
