package todo

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps todos in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	todos  map[int64]Todo
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{todos: make(map[int64]Todo), now: time.Now}
}

func (s *MemoryStore) List(ctx context.Context) ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) Create(ctx context.Context, title string, order int) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now()
	t := Todo{ID: s.nextID, Title: title, Order: order, CreatedAt: now, UpdatedAt: now}
	s.todos[t.ID] = t
	return &t, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, patch Patch) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !patch.IsEmpty() {
		t = patch.Apply(t)
		t.UpdatedAt = s.now()
		s.todos[id] = t
	}
	return &t, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.todos, id)
	return &t, nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) ([]Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.sorted()
	s.todos = make(map[int64]Todo)
	return out, nil
}

// sorted must be called with the lock held.
func (s *MemoryStore) sorted() []Todo {
	out := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	sortTodos(out)
	return out
}
