package todo

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/todo-api/domain/todo"
	"github.com/example/todo-api/events"
	"github.com/go-monolith/mono/pkg/types"
)

// listCacheKey is the cache key of the full todo list.
const listCacheKey = "list"

// ListCache is the subset of the cache used by the service.
type ListCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// Publisher emits todo lifecycle events.
type Publisher interface {
	PublishCreated(event events.TodoCreatedEvent) error
	PublishUpdated(event events.TodoUpdatedEvent) error
	PublishDeleted(event events.TodoDeletedEvent) error
}

// Service implements the todo use cases on top of a Repository.
type Service struct {
	repo      Repository
	cache     ListCache
	publisher Publisher
	logger    types.Logger
	now       func() time.Time
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithListCache enables cache-aside for List.
func WithListCache(cache ListCache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithPublisher enables event publishing.
func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

// NewService creates a new todo service.
func NewService(repo Repository, logger types.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all todos, served from the cache when possible.
func (s *Service) List(ctx context.Context) ([]domain.Todo, error) {
	if s.cache != nil {
		var cached []domain.Todo
		hit, err := s.cache.Get(ctx, listCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Todo list cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	todos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listCacheKey, todos); err != nil {
			s.logger.Warn("Todo list cache write failed", "error", err)
		}
	}
	return todos, nil
}

// Get returns a single todo.
func (s *Service) Get(ctx context.Context, id int64) (domain.Todo, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new todo. A zero priority becomes the default priority.
func (s *Service) Create(ctx context.Context, draft domain.Draft) (domain.Todo, error) {
	if draft.Priority == 0 {
		draft.Priority = domain.DefaultPriority
	}
	if err := draft.Validate(); err != nil {
		return domain.Todo{}, err
	}

	t, err := s.repo.Create(ctx, draft)
	if err != nil {
		return domain.Todo{}, err
	}
	s.invalidateList(ctx)

	s.logger.Info("Todo created", "id", t.ID, "priority", t.Priority.String())
	if s.publisher != nil {
		event := events.TodoCreatedEvent{
			TodoID:    t.ID,
			Title:     t.Title,
			Priority:  int(t.Priority),
			CreatedAt: s.now(),
		}
		if err := s.publisher.PublishCreated(event); err != nil {
			// Event publishing is best-effort.
			s.logger.Warn("Failed to publish TodoCreated event", "id", t.ID, "error", err)
		}
	}
	return t, nil
}

// UpdateDone sets the done flag of a todo.
func (s *Service) UpdateDone(ctx context.Context, id int64, done bool) (domain.Todo, error) {
	t, err := s.repo.UpdateDone(ctx, id, done)
	if err != nil {
		return domain.Todo{}, err
	}
	s.updated(ctx, t)
	return t, nil
}

// Update applies a partial update. An empty patch returns the todo unchanged.
func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (domain.Todo, error) {
	if err := patch.Validate(); err != nil {
		return domain.Todo{}, err
	}
	if patch.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}

	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Todo{}, err
	}
	s.updated(ctx, t)
	return t, nil
}

// Delete removes a todo and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}
	s.invalidateList(ctx)

	s.logger.Info("Todo deleted", "id", id)
	if s.publisher != nil {
		event := events.TodoDeletedEvent{TodoID: id, DeletedAt: s.now()}
		if err := s.publisher.PublishDeleted(event); err != nil {
			s.logger.Warn("Failed to publish TodoDeleted event", "id", id, "error", err)
		}
	}
	return true, nil
}

func (s *Service) updated(ctx context.Context, t domain.Todo) {
	s.invalidateList(ctx)

	s.logger.Info("Todo updated", "id", t.ID, "done", t.Done)
	if s.publisher != nil {
		event := events.TodoUpdatedEvent{
			TodoID:    t.ID,
			Title:     t.Title,
			Done:      t.Done,
			Priority:  int(t.Priority),
			UpdatedAt: s.now(),
		}
		if err := s.publisher.PublishUpdated(event); err != nil {
			s.logger.Warn("Failed to publish TodoUpdated event", "id", t.ID, "error", err)
		}
	}
}

func (s *Service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("Todo list cache invalidation failed", "error", err)
	}
}
