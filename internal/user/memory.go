package user

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps users in process memory. It backs DB_DRIVER=memory
// and the service tests.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*User)}
}

func (r *MemoryRepository) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}

	r.nextID++
	u := &User{ID: r.nextID, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.byEmail[email] = u

	out := *u
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byEmail))
	r.byEmail = make(map[string]*User)
	return n, nil
}
