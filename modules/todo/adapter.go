package todo

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/todo-api/domain/todo"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// todoAdapter wraps ServiceContainer for type-safe cross-module communication.
// This is the adapter that implements the TodoPort interface.
type todoAdapter struct {
	container mono.ServiceContainer
}

// NewTodoAdapter creates a new adapter for todo services.
// container is the ServiceContainer from the todo module received via SetDependencyServiceContainer.
func NewTodoAdapter(container mono.ServiceContainer) TodoPort {
	if container == nil {
		panic("todo adapter requires non-nil ServiceContainer")
	}
	return &todoAdapter{container: container}
}

// ListTodos lists all todos via the list service.
func (a *todoAdapter) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var resp ListTodosResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceList,
		json.Marshal,
		json.Unmarshal,
		&ListTodosRequest{},
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceList, err)
	}
	if resp.Todos == nil {
		resp.Todos = []domain.Todo{}
	}
	return resp.Todos, nil
}

// GetTodo retrieves a todo by id via the get service.
func (a *todoAdapter) GetTodo(ctx context.Context, id int64) (domain.Todo, error) {
	return callTodo(ctx, a.container, ServiceGet, &GetTodoRequest{ID: id})
}

// CreateTodo creates a todo via the create service.
func (a *todoAdapter) CreateTodo(ctx context.Context, req *CreateTodoRequest) (domain.Todo, error) {
	return callTodo(ctx, a.container, ServiceCreate, req)
}

// UpdateDone sets the done flag via the update-done service.
func (a *todoAdapter) UpdateDone(ctx context.Context, id int64, done bool) (domain.Todo, error) {
	return callTodo(ctx, a.container, ServiceUpdateDone, &UpdateDoneRequest{ID: id, Done: done})
}

// UpdateTodo applies a partial update via the update service.
func (a *todoAdapter) UpdateTodo(ctx context.Context, id int64, patch domain.Patch) (domain.Todo, error) {
	return callTodo(ctx, a.container, ServiceUpdate, &UpdateTodoRequest{ID: id, Patch: patch})
}

// DeleteTodo deletes a todo via the delete service.
func (a *todoAdapter) DeleteTodo(ctx context.Context, id int64) (bool, error) {
	var resp DeleteTodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceDelete,
		json.Marshal,
		json.Unmarshal,
		&DeleteTodoRequest{ID: id},
		&resp,
	); err != nil {
		return false, fmt.Errorf("%s service call failed: %w", ServiceDelete, err)
	}
	return resp.Deleted, nil
}

// callTodo calls a service that replies with a TodoResponse.
func callTodo[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (domain.Todo, error) {
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return domain.Todo{}, fmt.Errorf("%s service call failed: %w", service, err)
	}
	return resp.Result()
}
