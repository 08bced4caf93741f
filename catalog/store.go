package catalog

import (
	"sync"

	"recipebox/models"
)

// Store is the client-side recipe cache. It has a single owner (a Service)
// and pushes a fresh copy of its contents to subscribers after every change.
type Store struct {
	mu      sync.Mutex
	recipes []models.OutputRecipe
	subs    map[int]func([]models.OutputRecipe)
	nextSub int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{subs: make(map[int]func([]models.OutputRecipe))}
}

// Snapshot returns a copy of the cached recipes
func (s *Store) Snapshot() []models.OutputRecipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.recipes)
}

// Len returns the number of cached recipes
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}

// Replace swaps the whole cache
func (s *Store) Replace(recipes []models.OutputRecipe) {
	s.mu.Lock()
	s.recipes = cloneAll(recipes)
	s.publishLocked()
}

// Upsert replaces the recipe with the same id or appends it
func (s *Store) Upsert(r models.OutputRecipe) {
	s.mu.Lock()
	r = clone(r)
	for i := range s.recipes {
		if s.recipes[i].ID == r.ID {
			s.recipes[i] = r
			s.publishLocked()
			return
		}
	}
	s.recipes = append(s.recipes, r)
	s.publishLocked()
}

// Update applies fn to the cached recipe with the given id; it reports whether one was found
func (s *Store) Update(id int, fn func(*models.OutputRecipe)) bool {
	s.mu.Lock()
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			fn(&s.recipes[i])
			s.publishLocked()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// Remove drops the recipe with the given id
func (s *Store) Remove(id int) {
	s.mu.Lock()
	kept := make([]models.OutputRecipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.recipes = kept
	s.publishLocked()
}

// Subscribe registers fn for change notifications and immediately sends the
// current contents. The returned func unsubscribes.
func (s *Store) Subscribe(fn func([]models.OutputRecipe)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := cloneAll(s.recipes)
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// publishLocked unlocks s.mu and notifies subscribers outside the lock
func (s *Store) publishLocked() {
	current := s.recipes
	subs := make([]func([]models.OutputRecipe), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	snapshot := cloneAll(current)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cloneAll(snapshot))
	}
}

func clone(r models.OutputRecipe) models.OutputRecipe {
	if r.Ingredients != nil {
		r.Ingredients = append([]string(nil), r.Ingredients...)
	}
	return r
}

func cloneAll(in []models.OutputRecipe) []models.OutputRecipe {
	out := make([]models.OutputRecipe, len(in))
	for i, r := range in {
		out[i] = clone(r)
	}
	return out
}
