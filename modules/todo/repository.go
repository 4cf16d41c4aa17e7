package todo

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	domain "github.com/example/todo-api/domain/todo"
)

// Repository is the authoritative store of todos keyed by id.
// Implementations return copies; callers never mutate stored records directly.
type Repository interface {
	// FindAll returns every stored todo in ascending id order.
	FindAll(ctx context.Context) ([]domain.Todo, error)
	// FindByID returns domain.ErrNotFound when id is not stored.
	FindByID(ctx context.Context, id int64) (domain.Todo, error)
	// Save stores a pending todo with the default priority.
	Save(ctx context.Context, title string) (domain.Todo, error)
	// Create stores a pending todo built from draft.
	Create(ctx context.Context, draft domain.Draft) (domain.Todo, error)
	// UpdateDone sets the completion flag, returning domain.ErrNotFound when id is not stored.
	UpdateDone(ctx context.Context, id int64, done bool) (domain.Todo, error)
	// Update applies patch, returning domain.ErrNotFound when id is not stored.
	Update(ctx context.Context, id int64, patch domain.Patch) (domain.Todo, error)
	// Delete removes id and reports whether anything was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// MemoryRepository provides in-memory todo storage.
type MemoryRepository struct {
	todos  map[int64]domain.Todo
	mu     sync.RWMutex
	lastID atomic.Int64
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty repository whose first id is 1.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		todos: make(map[int64]domain.Todo),
	}
}

// FindAll returns all todos.
func (r *MemoryRepository) FindAll(_ context.Context) ([]domain.Todo, error) {
	r.mu.RLock()
	result := make([]domain.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		result = append(result, copyTodo(t))
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindByID finds a todo by id.
func (r *MemoryRepository) FindByID(_ context.Context, id int64) (domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, found := r.todos[id]
	if !found {
		return domain.Todo{}, domain.ErrNotFound
	}
	return copyTodo(t), nil
}

// Save stores a new todo with only a title.
func (r *MemoryRepository) Save(ctx context.Context, title string) (domain.Todo, error) {
	return r.Create(ctx, domain.NewDraft(title))
}

// Create stores a new todo built from draft.
func (r *MemoryRepository) Create(_ context.Context, draft domain.Draft) (domain.Todo, error) {
	if err := draft.Validate(); err != nil {
		return domain.Todo{}, err
	}

	t := draft.Build(r.lastID.Add(1))

	r.mu.Lock()
	r.todos[t.ID] = t
	r.mu.Unlock()

	return copyTodo(t), nil
}

// UpdateDone sets the done flag of a todo.
func (r *MemoryRepository) UpdateDone(ctx context.Context, id int64, done bool) (domain.Todo, error) {
	return r.Update(ctx, id, domain.DonePatch(done))
}

// Update applies a partial update to a todo.
func (r *MemoryRepository) Update(_ context.Context, id int64, patch domain.Patch) (domain.Todo, error) {
	if err := patch.Validate(); err != nil {
		return domain.Todo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, found := r.todos[id]
	if !found {
		return domain.Todo{}, domain.ErrNotFound
	}
	patch.Apply(&t)
	r.todos[id] = t
	return copyTodo(t), nil
}

// Delete removes a todo by id.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.todos[id]; !found {
		return false, nil
	}
	delete(r.todos, id)
	return true, nil
}

// Len returns the number of stored todos.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.todos)
}

func copyTodo(t domain.Todo) domain.Todo {
	t.Deadline = t.Deadline.Clone()
	return t
}
