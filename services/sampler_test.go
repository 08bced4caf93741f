package services

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"recipebox/models"
	"recipebox/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(max, perCategory int, seed uint64) *Sampler {
	return NewSampler(max, perCategory, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), utils.NewNopLogger())
}

func pool(counts map[string]int) []models.NormalizedRecipe {
	var out []models.NormalizedRecipe
	for cat, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, models.NormalizedRecipe{Title: fmt.Sprintf("%s %d", cat, i), Category: cat})
		}
	}
	return out
}

func countByCategory(recipes []models.NormalizedRecipe) map[string]int {
	return CategoryBreakdown(recipes)
}

func TestSample_NeverExceedsMax(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		s := newTestSampler(20, 2, seed)
		got := s.Sample(pool(map[string]int{"Beef": 30, "Dessert": 30, "Seafood": 5}))
		assert.Len(t, got, 20)
	}
}

func TestSample_CapHoldsWhenSupplyAllows(t *testing.T) {
	counts := map[string]int{}
	for _, c := range []string{"Beef", "Pork", "Lamb", "Seafood", "Pasta", "Dessert", "Vegetarian", "Chicken", "Side", "Starter"} {
		counts[c] = 4
	}
	for seed := uint64(1); seed <= 20; seed++ {
		got := newTestSampler(20, 2, seed).Sample(pool(counts))
		require.Len(t, got, 20)
		for cat, n := range countByCategory(got) {
			assert.LessOrEqual(t, n, 2, "category %s over cap with seed %d", cat, seed)
		}
	}
}

func TestSample_SmallPoolReturnsEverything(t *testing.T) {
	in := pool(map[string]int{"Beef": 3, "Dessert": 1})
	got := newTestSampler(20, 2, 7).Sample(in)

	require.Len(t, got, 4)
	titles := utils.NewTitleSet()
	for _, r := range got {
		assert.True(t, titles.Add(r.Title), "duplicate %s", r.Title)
	}
}

func TestSample_TopsUpPastCap(t *testing.T) {
	// 6 + 4 across two categories, cap 2, max 5
	for seed := uint64(1); seed <= 20; seed++ {
		got := newTestSampler(5, 2, seed).Sample(pool(map[string]int{"Beef": 6, "Dessert": 4}))
		require.Len(t, got, 5)

		// the capped pass fills the first four slots, two from each category
		first := countByCategory(got[:4])
		assert.Equal(t, 2, first["Beef"])
		assert.Equal(t, 2, first["Dessert"])
	}
}

func TestSample_MissingCategoryIsUnknown(t *testing.T) {
	in := []models.NormalizedRecipe{{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D", Category: "Beef"}}
	got := newTestSampler(3, 1, 3).Sample(in)

	require.Len(t, got, 3)
	// only one untagged recipe fits under the cap, so Beef is always taken in the first pass
	first := countByCategory(got[:2])
	assert.Equal(t, 1, first["Unknown"])
	assert.Equal(t, 1, first["Beef"])
}

func TestSample_DoesNotModifyInput(t *testing.T) {
	in := pool(map[string]int{"Beef": 10})
	snapshot := append([]models.NormalizedRecipe(nil), in...)

	newTestSampler(5, 2, 11).Sample(in)
	assert.Equal(t, snapshot, in)
}

func TestSample_ShuffleReachesEveryPosition(t *testing.T) {
	in := pool(map[string]int{"Beef": 5})
	seenFirst := map[string]bool{}
	for seed := uint64(1); seed <= 200; seed++ {
		got := newTestSampler(5, 5, seed).Sample(in)
		seenFirst[got[0].Title] = true
	}
	assert.Len(t, seenFirst, 5)
}
