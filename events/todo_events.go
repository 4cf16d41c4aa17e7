package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TodoCreatedEvent is emitted when a new todo is stored.
type TodoCreatedEvent struct {
	TodoID    int64     `json:"todo_id"`
	Title     string    `json:"title"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoCreatedV1 is the typed event definition for todo creation.
// Subject: events.todo.v1.todo-created
var TodoCreatedV1 = helper.EventDefinition[TodoCreatedEvent](
	"todo", "TodoCreated", "v1",
)

// TodoUpdatedEvent is emitted when a todo's fields change.
type TodoUpdatedEvent struct {
	TodoID    int64     `json:"todo_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	Priority  int       `json:"priority"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoUpdatedV1 is the typed event definition for todo updates.
// Subject: events.todo.v1.todo-updated
var TodoUpdatedV1 = helper.EventDefinition[TodoUpdatedEvent](
	"todo", "TodoUpdated", "v1",
)

// TodoDeletedEvent is emitted when a todo is removed.
type TodoDeletedEvent struct {
	TodoID    int64     `json:"todo_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TodoDeletedV1 is the typed event definition for todo deletion.
// Subject: events.todo.v1.todo-deleted
var TodoDeletedV1 = helper.EventDefinition[TodoDeletedEvent](
	"todo", "TodoDeleted", "v1",
)
