package todo

import (
	"strconv"
	"time"

	"github.com/redmonkez12/go-todo-api/internal/apperror"
)

var ErrNotFound = apperror.NotFound("Todo not found")

type Todo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Order     *int    `json:"order,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil && p.Order == nil
}

// Apply returns t with the patch applied.
func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	return t
}

// Response is the wire form of a todo.
type Response struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
	URL       string `json:"url"`
}

// Present builds the response for t, addressing it under baseURL.
func Present(t Todo, baseURL string) Response {
	return Response{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Order:     t.Order,
		URL:       baseURL + "/todos/" + strconv.FormatInt(t.ID, 10),
	}
}

// PresentAll presents every todo in ts, keeping their order.
func PresentAll(ts []Todo, baseURL string) []Response {
	out := make([]Response, 0, len(ts))
	for _, t := range ts {
		out = append(out, Present(t, baseURL))
	}
	return out
}
