package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"recipebox/models"
	"recipebox/storage"
	"recipebox/utils"

	"github.com/go-chi/chi/v5"
)

// RecipeHandler handles /recipes requests
type RecipeHandler struct {
	store  *storage.DocumentStore
	logger *utils.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(store *storage.DocumentStore, logger *utils.Logger) *RecipeHandler {
	return &RecipeHandler{store: store, logger: logger}
}

// CreateRecipeRequest is the body of POST /recipes
type CreateRecipeRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=500"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions string   `json:"instructions" validate:"required"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"omitempty,url"`
	Favorite     bool     `json:"favorite"`
	IsUser       bool     `json:"isUser"`
}

// PatchRecipeRequest is the body of PATCH /recipes/{id}; absent fields stay unchanged
type PatchRecipeRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=500"`
	Ingredients  []string `json:"ingredients" validate:"omitempty,min=1,dive,required"`
	Instructions *string  `json:"instructions" validate:"omitempty,min=1"`
	ThumbnailURL *string  `json:"thumbnailUrl" validate:"omitempty,url"`
	Favorite     *bool    `json:"favorite"`
}

// List handles GET /recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.List())
}

// Get handles GET /recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	recipe, err := h.store.Get(id)
	if err != nil {
		h.respondStoreError(w, err, id)
		return
	}
	respondJSON(w, http.StatusOK, recipe)
}

// Create handles POST /recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Instructions = strings.TrimSpace(req.Instructions)
	req.Ingredients = trimAll(req.Ingredients)

	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	created, err := h.store.Create(models.OutputRecipe{
		Title:           req.Title,
		Description:     strings.TrimSpace(req.Description),
		Ingredients:     req.Ingredients,
		IngredientsText: strings.Join(req.Ingredients, " | "),
		Instructions:    req.Instructions,
		ThumbnailURL:    strings.TrimSpace(req.ThumbnailURL),
		Favorite:        req.Favorite,
		IsUser:          req.IsUser,
	})
	if err != nil {
		h.logger.Error("Failed to create recipe '%s': %v", req.Title, err)
		respondError(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Patch handles PATCH /recipes/{id}
func (h *RecipeHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	var req PatchRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.Title = trimPtr(req.Title)
	req.Description = trimPtr(req.Description)
	req.Instructions = trimPtr(req.Instructions)
	req.ThumbnailURL = trimPtr(req.ThumbnailURL)
	if req.Ingredients != nil {
		req.Ingredients = trimAll(req.Ingredients)
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	patch := storage.RecipePatch{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		ThumbnailURL: req.ThumbnailURL,
		Favorite:     req.Favorite,
	}
	if req.Ingredients != nil {
		text := strings.Join(req.Ingredients, " | ")
		patch.IngredientsText = &text
	}

	updated, err := h.store.Patch(id, patch)
	if err != nil {
		h.respondStoreError(w, err, id)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.respondStoreError(w, err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) respondStoreError(w http.ResponseWriter, err error, id int) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	h.logger.Error("Recipe %d: %v", id, err)
	respondError(w, http.StatusInternalServerError, "Failed to update recipes")
}

func recipeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return 0, false
	}
	return id, true
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
