package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"recipebox/models"
	"recipebox/utils"
)

// ErrNotFound is returned when the backend has no recipe with the requested id
var ErrNotFound = errors.New("recipe not found")

// APIError is a failed backend call
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// NewRecipe is the payload for Create
type NewRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Favorite     bool     `json:"favorite"`
}

// Changes is the payload for Update; nil fields are left alone
type Changes struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions *string  `json:"instructions,omitempty"`
	ThumbnailURL *string  `json:"thumbnailUrl,omitempty"`
	Favorite     *bool    `json:"favorite,omitempty"`
}

// Service talks to the recipe backend and keeps the Store in step with it
type Service struct {
	baseURL string
	client  *http.Client
	store   *Store
	logger  *utils.Logger
}

// NewService creates a Service; baseURL points at the backend root (e.g. http://localhost:3000)
func NewService(baseURL string, client *http.Client, store *Store, logger *utils.Logger) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/") + "/recipes",
		client:  client,
		store:   store,
		logger:  logger,
	}
}

// Store exposes the cache for subscribers
func (s *Service) Store() *Store {
	return s.store
}

// GetAll loads every recipe and replaces the cache
func (s *Service) GetAll(ctx context.Context) ([]models.OutputRecipe, error) {
	var list []models.OutputRecipe
	if err := s.do(ctx, http.MethodGet, s.baseURL, nil, &list); err != nil {
		return nil, err
	}
	s.store.Replace(list)
	return list, nil
}

// GetByID loads one recipe
func (s *Service) GetByID(ctx context.Context, id int) (models.OutputRecipe, error) {
	var r models.OutputRecipe
	if err := s.do(ctx, http.MethodGet, s.itemURL(id), nil, &r); err != nil {
		return models.OutputRecipe{}, err
	}
	return r, nil
}

// Search filters recipes by a case-insensitive substring of the title, description
// or any ingredient. An empty term returns everything. The cache is used when it
// holds anything; otherwise the list is loaded first.
func (s *Service) Search(ctx context.Context, term string) ([]models.OutputRecipe, error) {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return s.GetAll(ctx)
	}

	source := s.store.Snapshot()
	if len(source) == 0 {
		var err error
		if source, err = s.GetAll(ctx); err != nil {
			return nil, err
		}
	}

	out := make([]models.OutputRecipe, 0, len(source))
	for _, r := range source {
		if matches(r, t) {
			out = append(out, r)
		}
	}
	return out, nil
}

func matches(r models.OutputRecipe, term string) bool {
	if strings.Contains(strings.ToLower(r.Title), term) || strings.Contains(strings.ToLower(r.Description), term) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), term) {
			return true
		}
	}
	return false
}

// ListFilter narrows a list the way the recipe list view does: Added keeps only
// user-authored recipes, Saved only favorites. Both may be set.
type ListFilter struct {
	Added bool
	Saved bool
}

// Apply returns the matching recipes in their original order
func (f ListFilter) Apply(recipes []models.OutputRecipe) []models.OutputRecipe {
	out := make([]models.OutputRecipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Added && !r.IsUser {
			continue
		}
		if f.Saved && !r.Favorite {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Create stores a user-authored recipe and appends it to the cache
func (s *Service) Create(ctx context.Context, in NewRecipe) (models.OutputRecipe, error) {
	payload := struct {
		NewRecipe
		IsUser bool `json:"isUser"`
	}{NewRecipe: in, IsUser: true}

	var created models.OutputRecipe
	if err := s.do(ctx, http.MethodPost, s.baseURL, payload, &created); err != nil {
		return models.OutputRecipe{}, err
	}
	s.store.Upsert(created)
	return created, nil
}

// Update applies changes on the backend and merges the result into the cache
func (s *Service) Update(ctx context.Context, id int, changes Changes) (models.OutputRecipe, error) {
	var updated models.OutputRecipe
	if err := s.do(ctx, http.MethodPatch, s.itemURL(id), changes, &updated); err != nil {
		return models.OutputRecipe{}, err
	}
	s.store.Update(id, func(r *models.OutputRecipe) { *r = clone(updated) })
	return updated, nil
}

// ToggleFavorite sets the favorite flag and mirrors only that flag into the cache
func (s *Service) ToggleFavorite(ctx context.Context, id int, favorite bool) (models.OutputRecipe, error) {
	var updated models.OutputRecipe
	if err := s.do(ctx, http.MethodPatch, s.itemURL(id), map[string]bool{"favorite": favorite}, &updated); err != nil {
		return models.OutputRecipe{}, err
	}
	s.store.Update(id, func(r *models.OutputRecipe) { r.Favorite = updated.Favorite })
	return updated, nil
}

// Delete removes a recipe from view. Only user-authored recipes are deleted on
// the backend; seeded ones are just dropped from the cache.
func (s *Service) Delete(ctx context.Context, id int) error {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.IsUser {
		if err := s.do(ctx, http.MethodDelete, s.itemURL(id), nil, nil); err != nil {
			return err
		}
	} else {
		s.logger.Debug("Hiding seeded recipe %d", id)
	}
	s.store.Remove(id)
	return nil
}

func (s *Service) itemURL(id int) string {
	return s.baseURL + "/" + strconv.Itoa(id)
}

func (s *Service) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, url, err)
	}
	return nil
}

// apiError builds the message from a string body or a "message" field,
// falling back to the status line.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := ""
	var withMessage struct {
		Message string `json:"message"`
	}
	var asString string
	switch {
	case json.Unmarshal(data, &asString) == nil:
		msg = asString
	case json.Unmarshal(data, &withMessage) == nil:
		msg = withMessage.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed (%d %s).", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: msg}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	}
	return apiErr
}
