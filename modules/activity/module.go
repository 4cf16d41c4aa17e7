package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/todo-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 100

// ServiceList is the request-reply service returning recent entries.
const ServiceList = "list"

// Module records todo events as a driven adapter and serves them back.
type Module struct {
	feed   *Feed
	logger types.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)

// NewModule creates a new activity module retaining at most limit entries.
func NewModule(limit int, logger types.Logger) *Module {
	return &Module{
		feed:   NewFeed(limit),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the todo lifecycle events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoCreatedV1, m.handleTodoCreated, m); err != nil {
		return fmt.Errorf("failed to register TodoCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoUpdatedV1, m.handleTodoUpdated, m); err != nil {
		return fmt.Errorf("failed to register TodoUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoDeletedV1, m.handleTodoDeleted, m); err != nil {
		return fmt.Errorf("failed to register TodoDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"TodoCreated.v1", "TodoUpdated.v1", "TodoDeleted.v1"})
	return nil
}

// RegisterServices registers the list service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceList, err)
	}
	return nil
}

func (m *Module) handleTodoCreated(_ context.Context, event events.TodoCreatedEvent, _ *mono.Msg) error {
	m.feed.Record(KindCreated, event.TodoID,
		fmt.Sprintf("Todo %d '%s' created", event.TodoID, event.Title), event.CreatedAt)
	return nil
}

func (m *Module) handleTodoUpdated(_ context.Context, event events.TodoUpdatedEvent, _ *mono.Msg) error {
	state := "pending"
	if event.Done {
		state = "done"
	}
	m.feed.Record(KindUpdated, event.TodoID,
		fmt.Sprintf("Todo %d '%s' updated (%s)", event.TodoID, event.Title, state), event.UpdatedAt)
	return nil
}

func (m *Module) handleTodoDeleted(_ context.Context, event events.TodoDeletedEvent, _ *mono.Msg) error {
	m.feed.Record(KindDeleted, event.TodoID,
		fmt.Sprintf("Todo %d deleted", event.TodoID), event.DeletedAt)
	return nil
}

// listActivity handles the activity.list service request.
func (m *Module) listActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	entries := m.feed.Recent(req.Limit)
	return ListActivityResponse{Entries: entries, Total: len(entries)}, nil
}

// Feed returns the underlying feed.
func (m *Module) Feed() *Feed {
	return m.feed
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started - listening for todo events")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}
