package item

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrNotFound     = errors.New("item not found")
)

// Store exposes item CRUD for HTTP handlers.
type Store interface {
	List() []Item
	Get(id int) (Item, error)
	Create(name string) (Item, error)
	Update(id int, name string) (Item, error)
	Delete(id int) error
}

// MemoryStore implements Store with an in-memory slice. Listing order is
// insertion order. A single lock guards the collection and the id counter so
// the store is safe under concurrent HTTP requests.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []Item
	nextID int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// List returns a copy of all items in insertion order.
func (s *MemoryStore) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks up an item by identifier.
func (s *MemoryStore) Get(id int) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// Create validates the name, assigns the next identifier and appends the item.
// Ids are strictly monotonic: deleting items never makes an id available again.
func (s *MemoryStore) Create(name string) (Item, error) {
	if strings.TrimSpace(name) == "" {
		return Item{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it := Item{ID: s.nextID, Name: name}
	s.nextID++
	s.items = append(s.items, it)
	return it, nil
}

// Update replaces the name of the item with the given id. The name is
// validated before the lookup, so a malformed request is rejected with
// ErrNameRequired even when the id does not exist.
func (s *MemoryStore) Update(id int, name string) (Item, error) {
	if strings.TrimSpace(name) == "" {
		return Item{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Name = name
			return s.items[i], nil
		}
	}
	return Item{}, ErrNotFound
}

// Delete removes the item with the given id. Deleting the same id twice
// returns ErrNotFound on the second call.
func (s *MemoryStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
