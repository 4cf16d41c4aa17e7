package api

import (
	"errors"
	"strconv"
	"strings"

	domain "github.com/example/todo-api/domain/todo"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	api := m.app.Group("/api")
	api.Get("/activity", m.listActivity)

	todos := api.Group("/todos")
	todos.Get("/", m.listTodos)
	todos.Post("/", m.createTodo)
	todos.Get("/:id", m.getTodo)
	todos.Put("/:id", m.updateTodo)
	todos.Delete("/:id", m.deleteTodo)

	if m.cache != nil {
		api.Get("/cache/stats", m.cacheStats)
	}
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.cfg.Port,
		},
	})
}

// listTodos handles GET /api/todos.
func (m *Module) listTodos(c *fiber.Ctx) error {
	todos, err := m.todos.ListTodos(c.UserContext())
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(todos)
}

// getTodo handles GET /api/todos/:id.
func (m *Module) getTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err)
	}

	t, err := m.todos.GetTodo(c.UserContext(), id)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(t)
}

// createTodo handles POST /api/todos.
func (m *Module) createTodo(c *fiber.Ctx) error {
	plainText := strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMETextPlain)
	req, err := decodeCreateBody(c.Body(), plainText)
	if err != nil {
		return badRequest(c, err)
	}

	t, err := m.todos.CreateTodo(c.UserContext(), &req)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// updateTodo handles PUT /api/todos/:id. The body is either a bare boolean
// for the done flag or a todo object whose present fields are applied.
func (m *Module) updateTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err)
	}

	body, err := decodeUpdateBody(c.Body())
	if err != nil {
		return badRequest(c, err)
	}

	var t domain.Todo
	if body.Done != nil {
		t, err = m.todos.UpdateDone(c.UserContext(), id, *body.Done)
	} else {
		t, err = m.todos.UpdateTodo(c.UserContext(), id, body.Patch)
	}
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(t)
}

// deleteTodo handles DELETE /api/todos/:id and reports whether a todo was removed.
func (m *Module) deleteTodo(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return badRequest(c, err)
	}

	deleted, err := m.todos.DeleteTodo(c.UserContext(), id)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(deleted)
}

// listActivity handles GET /api/activity?limit=N.
func (m *Module) listActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return badRequest(c, errors.New("limit must not be negative"))
	}

	entries, err := m.activity.ListActivity(c.UserContext(), limit)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(ActivityResponse{Entries: entries, Total: len(entries)})
}

// cacheStats handles GET /api/cache/stats.
func (m *Module) cacheStats(c *fiber.Ctx) error {
	stats, err := m.cache.Stats(c.UserContext())
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(stats)
}

func todoID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, errors.New("todo id must be an integer")
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   errCodeInvalidRequest,
		Message: err.Error(),
	})
}

// writeError maps domain errors to HTTP responses.
func (m *Module) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   errCodeNotFound,
			Message: "Todo not found",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return badRequest(c, err)
	default:
		m.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   errCodeServerError,
			Message: "Internal Server Error",
		})
	}
}
