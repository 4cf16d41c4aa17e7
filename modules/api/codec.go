package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/example/todo-api/domain/todo"
	"github.com/example/todo-api/modules/todo"
)

var errEmptyBody = errors.New("request body is empty")

// createBody is the object form accepted by POST /todos.
// Fields other than these (id, done) are ignored.
type createBody struct {
	Title    *string      `json:"title"`
	Priority *int         `json:"priority"`
	Deadline *domain.Date `json:"deadline"`
}

// decodeCreateBody turns a POST body into a create request. A text/plain body
// is the title itself; otherwise the body is a JSON string or a JSON object.
func decodeCreateBody(body []byte, plainText bool) (todo.CreateTodoRequest, error) {
	if plainText {
		return todo.CreateTodoRequest{Title: string(body)}, nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return todo.CreateTodoRequest{}, errEmptyBody
	}

	switch trimmed[0] {
	case '"':
		var title string
		if err := json.Unmarshal(trimmed, &title); err != nil {
			return todo.CreateTodoRequest{}, fmt.Errorf("invalid title: %w", err)
		}
		return todo.CreateTodoRequest{Title: title}, nil

	case '{':
		var b createBody
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return todo.CreateTodoRequest{}, fmt.Errorf("invalid todo object: %w", err)
		}
		req := todo.CreateTodoRequest{Deadline: b.Deadline}
		if b.Title != nil {
			req.Title = *b.Title
		}
		if b.Priority != nil {
			p := domain.Priority(*b.Priority)
			if !p.Valid() {
				return todo.CreateTodoRequest{}, domain.ErrInvalidPriority
			}
			req.Priority = p
		}
		return req, nil

	default:
		return todo.CreateTodoRequest{}, errors.New("body must be a JSON string or a JSON object")
	}
}

// updateBody is the decoded form of a PUT body. Exactly one of Done or Patch
// is meaningful: Done is set for a bare JSON boolean.
type updateBody struct {
	Done  *bool
	Patch domain.Patch
}

// decodeUpdateBody turns a PUT body into either a done flag or a patch.
// Object fields that are absent stay untouched. "deadline": null clears the deadline.
func decodeUpdateBody(body []byte) (updateBody, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return updateBody{}, errEmptyBody
	}

	switch trimmed[0] {
	case 't', 'f':
		var done bool
		if err := json.Unmarshal(trimmed, &done); err != nil {
			return updateBody{}, fmt.Errorf("invalid done flag: %w", err)
		}
		return updateBody{Done: &done}, nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return updateBody{}, fmt.Errorf("invalid todo object: %w", err)
		}
		patch, err := decodePatch(fields)
		if err != nil {
			return updateBody{}, err
		}
		return updateBody{Patch: patch}, nil

	default:
		return updateBody{}, errors.New("body must be a JSON boolean or a JSON object")
	}
}

func decodePatch(fields map[string]json.RawMessage) (domain.Patch, error) {
	var patch domain.Patch

	if raw, ok := fields["title"]; ok && !isNull(raw) {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return domain.Patch{}, fmt.Errorf("invalid title: %w", err)
		}
		patch.Title = &title
	}

	if raw, ok := fields["done"]; ok && !isNull(raw) {
		var done bool
		if err := json.Unmarshal(raw, &done); err != nil {
			return domain.Patch{}, fmt.Errorf("invalid done flag: %w", err)
		}
		patch.Done = &done
	}

	if raw, ok := fields["priority"]; ok && !isNull(raw) {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return domain.Patch{}, fmt.Errorf("%w: %v", domain.ErrInvalidPriority, err)
		}
		p := domain.Priority(n)
		patch.Priority = &p
	}

	if raw, ok := fields["deadline"]; ok {
		patch.DeadlineSet = true
		if !isNull(raw) {
			var d domain.Date
			if err := json.Unmarshal(raw, &d); err != nil {
				return domain.Patch{}, err
			}
			patch.Deadline = &d
		}
	}

	return patch, patch.Validate()
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
