package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"recipebox/api"
	"recipebox/metrics"
	"recipebox/models"
	"recipebox/storage"
	"recipebox/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) (*Service, *storage.DocumentStore) {
	t.Helper()
	logger := utils.NewNopLogger()
	docs, err := storage.OpenDocumentStore(filepath.Join(t.TempDir(), "db.json"), logger)
	require.NoError(t, err)

	for _, r := range []models.OutputRecipe{
		{Title: "Carbonara", Description: "Italian • Pasta", Ingredients: []string{"Spaghetti", "Pancetta"}, Instructions: "Mix."},
		{Title: "Moussaka", Description: "Greek • Lamb", Ingredients: []string{"Aubergine", "Minced Lamb"}, Instructions: "Bake."},
		{Title: "Tarte Tatin", Description: "French • Dessert", Ingredients: []string{"Apples", "Puff Pastry"}, Instructions: "Caramelise."},
	} {
		_, err := docs.Create(r)
		require.NoError(t, err)
	}

	rt := api.NewRouter(docs, metrics.NewCollector("test"), logger, nil)
	srv := httptest.NewServer(rt.Setup())
	t.Cleanup(srv.Close)

	return NewService(srv.URL+"/", srv.Client(), NewStore(), logger), docs
}

func titles(recipes []models.OutputRecipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Title
	}
	return out
}

func TestService_GetAllFillsCacheAndNotifies(t *testing.T) {
	svc, _ := newBackend(t)

	var seen [][]models.OutputRecipe
	cancel := svc.Store().Subscribe(func(r []models.OutputRecipe) { seen = append(seen, r) })
	defer cancel()

	list, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Carbonara", "Moussaka", "Tarte Tatin"}, titles(list))
	assert.Equal(t, 3, svc.Store().Len())

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0])
	assert.Len(t, seen[1], 3)
}

func TestService_Search(t *testing.T) {
	svc, _ := newBackend(t)
	ctx := context.Background()

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Carbonara", "Moussaka", "Tarte Tatin"}},
		{"   ", []string{"Carbonara", "Moussaka", "Tarte Tatin"}},
		{"CARBON", []string{"Carbonara"}},
		{"greek", []string{"Moussaka"}},
		{"lamb", []string{"Moussaka"}},
		{"pastry", []string{"Tarte Tatin"}},
		{"a", []string{"Carbonara", "Moussaka", "Tarte Tatin"}},
		{"tofu", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestService_SearchUsesCacheWhenFilled(t *testing.T) {
	svc, docs := newBackend(t)
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)

	// a backend-only change stays invisible until the next GetAll
	_, err = docs.Create(models.OutputRecipe{Title: "Lamb Tagine", Ingredients: []string{"Lamb"}, Instructions: "Stew."})
	require.NoError(t, err)

	got, err := svc.Search(ctx, "lamb")
	require.NoError(t, err)
	assert.Equal(t, []string{"Moussaka"}, titles(got))
}

func TestService_CreateMarksUserRecipe(t *testing.T) {
	svc, docs := newBackend(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, NewRecipe{
		Title:        "Gran's Soup",
		Description:  "Family",
		Ingredients:  []string{"Leek", "Potato"},
		Instructions: "Simmer.",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
	assert.True(t, created.IsUser)
	assert.Equal(t, "Leek | Potato", created.IngredientsText)

	stored, err := docs.Get(4)
	require.NoError(t, err)
	assert.True(t, stored.IsUser)

	cached := svc.Store().Snapshot()
	require.Len(t, cached, 1)
	assert.Equal(t, "Gran's Soup", cached[0].Title)
}

func TestService_DeleteOnlyRemovesUserRecipesFromBackend(t *testing.T) {
	svc, docs := newBackend(t)
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)
	mine, err := svc.Create(ctx, NewRecipe{Title: "Toast", Ingredients: []string{"Bread"}, Instructions: "Toast it."})
	require.NoError(t, err)

	// seeded: hidden locally, still served by the backend
	require.NoError(t, svc.Delete(ctx, 2))
	assert.NotContains(t, titles(svc.Store().Snapshot()), "Moussaka")
	_, err = docs.Get(2)
	assert.NoError(t, err)

	// user-authored: gone everywhere
	require.NoError(t, svc.Delete(ctx, mine.ID))
	assert.NotContains(t, titles(svc.Store().Snapshot()), "Toast")
	_, err = docs.Get(mine.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_ToggleFavoriteAndUpdate(t *testing.T) {
	svc, docs := newBackend(t)
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)

	updated, err := svc.ToggleFavorite(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, updated.Favorite)

	stored, err := docs.Get(1)
	require.NoError(t, err)
	assert.True(t, stored.Favorite)
	assert.True(t, svc.Store().Snapshot()[0].Favorite)

	title := "Spaghetti Carbonara"
	_, err = svc.Update(ctx, 1, Changes{Title: &title, Ingredients: []string{"Spaghetti", "Egg", "Guanciale"}})
	require.NoError(t, err)

	cached := svc.Store().Snapshot()[0]
	assert.Equal(t, "Spaghetti Carbonara", cached.Title)
	assert.Equal(t, "Spaghetti | Egg | Guanciale", cached.IngredientsText)
	assert.True(t, cached.Favorite)
}

func TestService_ErrorMessages(t *testing.T) {
	svc, _ := newBackend(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Recipe not found", apiErr.Message)

	err = svc.Delete(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, NewRecipe{Title: "No ingredients", Instructions: "Nothing."})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Validation error")
}

func TestService_ErrorMessageFallbacks(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/recipes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Get("/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`"recipe is locked"`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	svc := NewService(srv.URL, srv.Client(), NewStore(), utils.NewNopLogger())
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Request failed (500 Internal Server Error).", apiErr.Message)
	assert.False(t, errors.Is(err, ErrNotFound))

	_, err = svc.GetByID(ctx, 1)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "recipe is locked", apiErr.Message)
}

func TestStore_SubscribeCancel(t *testing.T) {
	store := NewStore()
	calls := 0
	cancel := store.Subscribe(func([]models.OutputRecipe) { calls++ })

	store.Upsert(models.OutputRecipe{ID: 1, Title: "Pie"})
	store.Upsert(models.OutputRecipe{ID: 1, Title: "Pork Pie"})
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "Pork Pie", store.Snapshot()[0].Title)

	cancel()
	store.Remove(1)
	assert.Equal(t, 3, calls)
	assert.Zero(t, store.Len())
	assert.False(t, store.Update(1, func(*models.OutputRecipe) {}))
}

func TestListFilter(t *testing.T) {
	recipes := []models.OutputRecipe{
		{ID: 1, Title: "Seeded"},
		{ID: 2, Title: "Seeded favorite", Favorite: true},
		{ID: 3, Title: "Mine", IsUser: true},
		{ID: 4, Title: "Mine favorite", IsUser: true, Favorite: true},
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"none", ListFilter{}, []string{"Seeded", "Seeded favorite", "Mine", "Mine favorite"}},
		{"added", ListFilter{Added: true}, []string{"Mine", "Mine favorite"}},
		{"saved", ListFilter{Saved: true}, []string{"Seeded favorite", "Mine favorite"}},
		{"both", ListFilter{Added: true, Saved: true}, []string{"Mine favorite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(tt.filter.Apply(recipes)))
		})
	}
}

func TestService_SearchThenFilterSaved(t *testing.T) {
	svc, _ := newBackend(t)
	ctx := context.Background()

	_, err := svc.ToggleFavorite(ctx, 2, true)
	require.NoError(t, err)

	found, err := svc.Search(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Moussaka"}, titles(ListFilter{Saved: true}.Apply(found)))
	assert.Empty(t, ListFilter{Added: true}.Apply(found))
}
