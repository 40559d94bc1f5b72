package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmonkez12/go-todo-api/internal/apperror"
)

// Service holds the todo operations exposed over HTTP.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every todo ordered by order, then id.
func (s *Service) List(ctx context.Context) ([]Todo, error) {
	todos, err := s.store.List(ctx)
	if err != nil {
		return nil, internal("list todos", err)
	}
	return todos, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Todo, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify("get todo", err)
	}
	return t, nil
}

// Create stores a new, not yet completed todo.
func (s *Service) Create(ctx context.Context, title string, order int) (*Todo, error) {
	t, err := s.store.Create(ctx, title, order)
	if err != nil {
		return nil, internal("create todo", err)
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Todo, error) {
	t, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, classify("update todo", err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (*Todo, error) {
	t, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, classify("delete todo", err)
	}
	return t, nil
}

// DeleteAll empties the list and returns what was removed.
func (s *Service) DeleteAll(ctx context.Context) ([]Todo, error) {
	todos, err := s.store.DeleteAll(ctx)
	if err != nil {
		return nil, internal("delete todos", err)
	}
	return todos, nil
}

func classify(action string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return internal(action, err)
}

func internal(action string, err error) error {
	return apperror.Internal(fmt.Errorf("failed to %s: %w", action, err))
}
