package todo

import (
	"context"
	"errors"

	domain "github.com/example/todo-api/domain/todo"
)

// Service names registered by the todo module.
// The framework prefixes them with "services.todo.".
const (
	ServiceList       = "list"
	ServiceGet        = "get"
	ServiceCreate     = "create"
	ServiceUpdateDone = "update-done"
	ServiceUpdate     = "update"
	ServiceDelete     = "delete"
)

// Error codes carried in TodoResponse.Error.
const (
	ErrorCodeNotFound     = "not_found"
	ErrorCodeInvalidInput = "invalid_input"
)

// ListTodosRequest is the request for listing todos.
type ListTodosRequest struct{}

// ListTodosResponse is the response containing all todos.
type ListTodosResponse struct {
	Todos []domain.Todo `json:"todos"`
	Total int           `json:"total"`
}

// GetTodoRequest is the request for getting a todo.
type GetTodoRequest struct {
	ID int64 `json:"id"`
}

// CreateTodoRequest is the request for creating a todo.
// A zero Priority means the default priority.
type CreateTodoRequest struct {
	Title    string          `json:"title"`
	Priority domain.Priority `json:"priority,omitempty"`
	Deadline *domain.Date    `json:"deadline,omitempty"`
}

// UpdateDoneRequest is the request for setting a todo's done flag.
type UpdateDoneRequest struct {
	ID   int64 `json:"id"`
	Done bool  `json:"done"`
}

// UpdateTodoRequest is the request for a partial todo update.
type UpdateTodoRequest struct {
	ID    int64        `json:"id"`
	Patch domain.Patch `json:"patch"`
}

// DeleteTodoRequest is the request for deleting a todo.
type DeleteTodoRequest struct {
	ID int64 `json:"id"`
}

// DeleteTodoResponse is the response after deleting a todo.
type DeleteTodoResponse struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// TodoResponse carries either a todo or a domain error code.
type TodoResponse struct {
	Todo    *domain.Todo `json:"todo,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// newTodoResponse encodes the result of a service call. Domain errors travel
// as codes; anything else is returned as a transport error.
func newTodoResponse(t domain.Todo, err error) (TodoResponse, error) {
	switch {
	case err == nil:
		return TodoResponse{Todo: &t}, nil
	case errors.Is(err, domain.ErrNotFound):
		return TodoResponse{Error: ErrorCodeNotFound, Message: err.Error()}, nil
	case errors.Is(err, domain.ErrInvalidInput):
		return TodoResponse{Error: ErrorCodeInvalidInput, Message: err.Error()}, nil
	default:
		return TodoResponse{}, err
	}
}

// Result decodes the response back into a todo or a domain error.
func (r TodoResponse) Result() (domain.Todo, error) {
	switch r.Error {
	case "":
		if r.Todo == nil {
			return domain.Todo{}, errors.New("empty todo response")
		}
		return *r.Todo, nil
	case ErrorCodeNotFound:
		return domain.Todo{}, &remoteError{sentinel: domain.ErrNotFound, message: r.Message}
	case ErrorCodeInvalidInput:
		return domain.Todo{}, &remoteError{sentinel: domain.ErrInvalidInput, message: r.Message}
	default:
		return domain.Todo{}, errors.New(r.Message)
	}
}

// remoteError keeps the original message while matching the domain sentinel.
type remoteError struct {
	sentinel error
	message  string
}

func (e *remoteError) Error() string {
	if e.message == "" {
		return e.sentinel.Error()
	}
	return e.message
}

func (e *remoteError) Unwrap() error {
	return e.sentinel
}

// TodoPort defines the interface for todo operations (hexagonal port).
// Driving adapters such as the HTTP API use it to reach the core domain.
type TodoPort interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	GetTodo(ctx context.Context, id int64) (domain.Todo, error)
	CreateTodo(ctx context.Context, req *CreateTodoRequest) (domain.Todo, error)
	UpdateDone(ctx context.Context, id int64, done bool) (domain.Todo, error)
	UpdateTodo(ctx context.Context, id int64, patch domain.Patch) (domain.Todo, error)
	DeleteTodo(ctx context.Context, id int64) (bool, error)
}
