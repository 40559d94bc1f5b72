package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/go-todo-api/internal/database"
)

// Store persists todos. Get, Update and Delete return ErrNotFound for an
// unknown id.
type Store interface {
	List(ctx context.Context) ([]Todo, error)
	Get(ctx context.Context, id int64) (*Todo, error)
	Create(ctx context.Context, title string, order int) (*Todo, error)
	Update(ctx context.Context, id int64, patch Patch) (*Todo, error)
	Delete(ctx context.Context, id int64) (*Todo, error)
	DeleteAll(ctx context.Context) ([]Todo, error)
}

// Repository handles todo persistence in Postgres
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Todo, error) {
	var rows []database.Todo
	err := r.db.NewSelect().
		Model(&rows).
		Order("sort_order ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return mapDBTodos(rows), nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Todo, error) {
	row := new(database.Todo)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return mapDBTodo(row), nil
}

func (r *Repository) Create(ctx context.Context, title string, order int) (*Todo, error) {
	row := &database.Todo{Title: title, Order: order}
	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return mapDBTodo(row), nil
}

func (r *Repository) Update(ctx context.Context, id int64, patch Patch) (*Todo, error) {
	if patch.IsEmpty() {
		return r.Get(ctx, id)
	}

	row := new(database.Todo)
	q := r.db.NewUpdate().Model(row)
	if patch.Title != nil {
		q = q.Set("title = ?", *patch.Title)
	}
	if patch.Completed != nil {
		q = q.Set("completed = ?", *patch.Completed)
	}
	if patch.Order != nil {
		q = q.Set("sort_order = ?", *patch.Order)
	}

	res, err := q.Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return mapDBTodo(row), nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (*Todo, error) {
	row := new(database.Todo)
	res, err := r.db.NewDelete().
		Model(row).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return mapDBTodo(row), nil
}

// DeleteAll removes every todo and returns the removed rows in list order.
func (r *Repository) DeleteAll(ctx context.Context) ([]Todo, error) {
	var rows []database.Todo
	_, err := r.db.NewDelete().
		Model(&rows).
		Where("TRUE").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete todos: %w", err)
	}

	out := mapDBTodos(rows)
	sortTodos(out)
	return out, nil
}

func sortTodos(ts []Todo) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].Order != ts[j].Order {
			return ts[i].Order < ts[j].Order
		}
		return ts[i].ID < ts[j].ID
	})
}

func mapDBTodo(row *database.Todo) *Todo {
	return &Todo{
		ID:        row.ID,
		Title:     row.Title,
		Completed: row.Completed,
		Order:     row.Order,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func mapDBTodos(rows []database.Todo) []Todo {
	out := make([]Todo, 0, len(rows))
	for i := range rows {
		out = append(out, *mapDBTodo(&rows[i]))
	}
	return out
}
