package storage

import (
	"errors"
	"os"
	"sync"

	"recipebox/models"
	"recipebox/utils"
)

// ErrNotFound is returned when no recipe has the requested id
var ErrNotFound = errors.New("recipe not found")

// RecipePatch carries the fields of a partial update; nil means unchanged
type RecipePatch struct {
	Title           *string
	Description     *string
	Ingredients     []string
	IngredientsText *string
	Instructions    *string
	ThumbnailURL    *string
	Favorite        *bool
}

// DocumentStore serves the seed document as a small mutable collection.
// Every mutation rewrites the whole file.
type DocumentStore struct {
	mu       sync.RWMutex
	filePath string
	doc      *models.Document
	logger   *utils.Logger
}

// OpenDocumentStore loads the document at filePath; a missing file starts empty
func OpenDocumentStore(filePath string, logger *utils.Logger) (*DocumentStore, error) {
	doc, err := readDocument(filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		doc = &models.Document{Recipes: []models.OutputRecipe{}}
		logger.Warn("No document at %s, starting empty", filePath)
	case err != nil:
		return nil, err
	}
	if doc.Recipes == nil {
		doc.Recipes = []models.OutputRecipe{}
	}

	logger.Info("Loaded %d recipes from %s", len(doc.Recipes), filePath)
	return &DocumentStore{filePath: filePath, doc: doc, logger: logger}, nil
}

// List returns a copy of every recipe in document order
func (s *DocumentStore) List() []models.OutputRecipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.OutputRecipe, len(s.doc.Recipes))
	for i, r := range s.doc.Recipes {
		out[i] = cloneRecipe(r)
	}
	return out
}

// Get returns the recipe with the given id
func (s *DocumentStore) Get(id int) (models.OutputRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.OutputRecipe{}, ErrNotFound
	}
	return cloneRecipe(s.doc.Recipes[idx]), nil
}

// Create appends the recipe under the next free id and persists the document
func (s *DocumentStore) Create(r models.OutputRecipe) (models.OutputRecipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 1
	for _, existing := range s.doc.Recipes {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	r.ID = next
	r = cloneRecipe(r)

	s.doc.Recipes = append(s.doc.Recipes, r)
	if err := s.persist(); err != nil {
		s.doc.Recipes = s.doc.Recipes[:len(s.doc.Recipes)-1]
		return models.OutputRecipe{}, err
	}
	return cloneRecipe(r), nil
}

// Patch applies the non-nil fields of p to the recipe and persists the document
func (s *DocumentStore) Patch(id int, p RecipePatch) (models.OutputRecipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.OutputRecipe{}, ErrNotFound
	}

	before := s.doc.Recipes[idx]
	r := cloneRecipe(before)
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = append([]string(nil), p.Ingredients...)
	}
	if p.IngredientsText != nil {
		r.IngredientsText = *p.IngredientsText
	}
	if p.Instructions != nil {
		r.Instructions = *p.Instructions
	}
	if p.ThumbnailURL != nil {
		r.ThumbnailURL = *p.ThumbnailURL
	}
	if p.Favorite != nil {
		r.Favorite = *p.Favorite
	}

	s.doc.Recipes[idx] = r
	if err := s.persist(); err != nil {
		s.doc.Recipes[idx] = before
		return models.OutputRecipe{}, err
	}
	return cloneRecipe(r), nil
}

// Delete removes the recipe and persists the document
func (s *DocumentStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	before := s.doc.Recipes
	remaining := make([]models.OutputRecipe, 0, len(before)-1)
	remaining = append(remaining, before[:idx]...)
	remaining = append(remaining, before[idx+1:]...)

	s.doc.Recipes = remaining
	if err := s.persist(); err != nil {
		s.doc.Recipes = before
		return err
	}
	return nil
}

func (s *DocumentStore) indexOf(id int) int {
	for i, r := range s.doc.Recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *DocumentStore) persist() error {
	if err := writeDocument(s.filePath, s.doc); err != nil {
		s.logger.Error("Failed to persist %s: %v", s.filePath, err)
		return err
	}
	return nil
}

func cloneRecipe(r models.OutputRecipe) models.OutputRecipe {
	if r.Ingredients != nil {
		r.Ingredients = append([]string(nil), r.Ingredients...)
	}
	return r
}
