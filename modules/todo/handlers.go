package todo

import (
	"context"

	domain "github.com/example/todo-api/domain/todo"
	"github.com/go-monolith/mono"
)

// listTodos handles the todo.list service request.
func (m *TodoModule) listTodos(ctx context.Context, _ ListTodosRequest, _ *mono.Msg) (ListTodosResponse, error) {
	todos, err := m.service.List(ctx)
	if err != nil {
		return ListTodosResponse{}, err
	}
	return ListTodosResponse{Todos: todos, Total: len(todos)}, nil
}

// getTodo handles the todo.get service request.
func (m *TodoModule) getTodo(ctx context.Context, req GetTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return newTodoResponse(m.service.Get(ctx, req.ID))
}

// createTodo handles the todo.create service request.
func (m *TodoModule) createTodo(ctx context.Context, req CreateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return newTodoResponse(m.service.Create(ctx, domain.Draft{
		Title:    req.Title,
		Priority: req.Priority,
		Deadline: req.Deadline,
	}))
}

// updateDone handles the todo.update-done service request.
func (m *TodoModule) updateDone(ctx context.Context, req UpdateDoneRequest, _ *mono.Msg) (TodoResponse, error) {
	return newTodoResponse(m.service.UpdateDone(ctx, req.ID, req.Done))
}

// updateTodo handles the todo.update service request.
func (m *TodoModule) updateTodo(ctx context.Context, req UpdateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	return newTodoResponse(m.service.Update(ctx, req.ID, req.Patch))
}

// deleteTodo handles the todo.delete service request.
func (m *TodoModule) deleteTodo(ctx context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteTodoResponse, error) {
	deleted, err := m.service.Delete(ctx, req.ID)
	if err != nil {
		return DeleteTodoResponse{ID: req.ID}, err
	}
	return DeleteTodoResponse{Deleted: deleted, ID: req.ID}, nil
}
