package services

import (
	"math/rand/v2"

	"recipebox/models"
	"recipebox/utils"
)

const unknownCategory = "Unknown"

// Sampler picks a bounded, category-diverse subset of a recipe pool
type Sampler struct {
	maxRecipes     int
	maxPerCategory int
	rng            *rand.Rand
	logger         *utils.Logger
}

// NewSampler creates a Sampler. rng drives the shuffle.
func NewSampler(maxRecipes, maxPerCategory int, rng *rand.Rand, logger *utils.Logger) *Sampler {
	return &Sampler{
		maxRecipes:     maxRecipes,
		maxPerCategory: maxPerCategory,
		rng:            rng,
		logger:         logger,
	}
}

// Sample shuffles the pool, takes recipes while respecting the per-category cap,
// then tops up from the same shuffled pool ignoring the cap. The result never
// exceeds maxRecipes and never repeats a title. The input slice is not modified.
func (s *Sampler) Sample(pool []models.NormalizedRecipe) []models.NormalizedRecipe {
	shuffled := make([]models.NormalizedRecipe, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	final := make([]models.NormalizedRecipe, 0, s.maxRecipes)
	taken := utils.NewTitleSet()
	byCategory := make(map[string]int)

	for _, r := range shuffled {
		if len(final) >= s.maxRecipes {
			break
		}
		cat := categoryOf(r)
		if byCategory[cat] >= s.maxPerCategory {
			continue
		}
		if !taken.Add(r.Title) {
			continue
		}
		final = append(final, r)
		byCategory[cat]++
	}
	capped := len(final)

	for _, r := range shuffled {
		if len(final) >= s.maxRecipes {
			break
		}
		if taken.Add(r.Title) {
			final = append(final, r)
		}
	}

	if len(final) > s.maxRecipes {
		final = final[:s.maxRecipes]
	}

	s.logger.Info("Sampled %d recipes (%d under the per-category cap of %d, %d topped up)",
		len(final), capped, s.maxPerCategory, len(final)-capped)
	return final
}

func categoryOf(r models.NormalizedRecipe) string {
	if r.Category == "" {
		return unknownCategory
	}
	return r.Category
}
