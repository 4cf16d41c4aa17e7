package todo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domain "github.com/example/todo-api/domain/todo"
	"github.com/example/todo-api/events"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// fakeCache is a ListCache backed by a map of JSON documents.
type fakeCache struct {
	data    map[string][]byte
	gets    int
	deletes int
	failGet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	if c.failGet {
		return false, errors.New("redis down")
	}
	data, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.deletes++
	delete(c.data, key)
	return nil
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	created []events.TodoCreatedEvent
	updated []events.TodoUpdatedEvent
	deleted []events.TodoDeletedEvent
	err     error
}

func (p *recordingPublisher) PublishCreated(event events.TodoCreatedEvent) error {
	p.created = append(p.created, event)
	return p.err
}

func (p *recordingPublisher) PublishUpdated(event events.TodoUpdatedEvent) error {
	p.updated = append(p.updated, event)
	return p.err
}

func (p *recordingPublisher) PublishDeleted(event events.TodoDeletedEvent) error {
	p.deleted = append(p.deleted, event)
	return p.err
}

func newTestService(opts ...ServiceOption) *Service {
	s := NewService(NewMemoryRepository(), &mockLogger{}, opts...)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestService_CreateDefaultsPriority(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestService(WithPublisher(pub))

	todo, err := s.Create(context.Background(), domain.Draft{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, todo.Priority)

	require.Len(t, pub.created, 1)
	assert.Equal(t, events.TodoCreatedEvent{
		TodoID:    1,
		Title:     "Buy milk",
		Priority:  2,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}, pub.created[0])
}

func TestService_CreateInvalidPriority(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestService(WithPublisher(pub))

	_, err := s.Create(context.Background(), domain.Draft{Title: "x", Priority: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
	assert.Empty(t, pub.created)
}

func TestService_PublishFailureDoesNotFailOperation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus closed")}
	s := newTestService(WithPublisher(pub))
	ctx := context.Background()

	todo, err := s.Create(ctx, domain.NewDraft("Buy milk"))
	require.NoError(t, err)
	_, err = s.UpdateDone(ctx, todo.ID, true)
	require.NoError(t, err)
	deleted, err := s.Delete(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestService_UpdateAndDeleteEvents(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestService(WithPublisher(pub))
	ctx := context.Background()

	todo, err := s.Create(ctx, domain.NewDraft("Clean"))
	require.NoError(t, err)

	_, err = s.UpdateDone(ctx, todo.ID, true)
	require.NoError(t, err)
	require.Len(t, pub.updated, 1)
	assert.True(t, pub.updated[0].Done)
	assert.Equal(t, "Clean", pub.updated[0].Title)

	_, err = s.UpdateDone(ctx, 99, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, pub.updated, 1)

	deleted, err := s.Delete(ctx, 99)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, pub.deleted)

	deleted, err = s.Delete(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	require.Len(t, pub.deleted, 1)
	assert.Equal(t, todo.ID, pub.deleted[0].TodoID)
}

func TestService_UpdateEmptyPatch(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestService(WithPublisher(pub))
	ctx := context.Background()

	todo, err := s.Create(ctx, domain.NewDraft("Read"))
	require.NoError(t, err)

	got, err := s.Update(ctx, todo.ID, domain.Patch{})
	require.NoError(t, err)
	assert.Equal(t, todo, got)
	assert.Empty(t, pub.updated)

	_, err = s.Update(ctx, 99, domain.Patch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ListCacheAside(t *testing.T) {
	cache := newFakeCache()
	s := newTestService(WithListCache(cache))
	ctx := context.Background()

	_, err := s.Create(ctx, domain.NewDraft("Buy milk"))
	require.NoError(t, err)

	todos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Contains(t, cache.data, listCacheKey)

	// Served from the cache.
	todos, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)

	// Mutations invalidate the cached list.
	_, err = s.UpdateDone(ctx, 1, true)
	require.NoError(t, err)
	assert.NotContains(t, cache.data, listCacheKey)

	todos, err = s.List(ctx)
	require.NoError(t, err)
	assert.True(t, todos[0].Done)

	_, err = s.Delete(ctx, 1)
	require.NoError(t, err)
	todos, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestService_ListCacheErrorFallsBackToRepository(t *testing.T) {
	cache := newFakeCache()
	cache.failGet = true
	s := newTestService(WithListCache(cache))
	ctx := context.Background()

	_, err := s.Create(ctx, domain.NewDraft("Buy milk"))
	require.NoError(t, err)

	todos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
	assert.Equal(t, 1, cache.gets)
}
