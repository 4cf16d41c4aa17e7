package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ListActivityRequest is the request for recent entries. Limit <= 0 means all.
type ListActivityRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ListActivityResponse is the response containing recent entries, newest first.
type ListActivityResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// ActivityPort is the port driving adapters use to read the feed.
type ActivityPort interface {
	ListActivity(ctx context.Context, limit int) ([]Entry, error)
}

type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for activity services.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	if container == nil {
		panic("activity adapter requires non-nil ServiceContainer")
	}
	return &activityAdapter{container: container}
}

// ListActivity fetches recent entries via the list service.
func (a *activityAdapter) ListActivity(ctx context.Context, limit int) ([]Entry, error) {
	req := ListActivityRequest{Limit: limit}
	var resp ListActivityResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceList,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceList, err)
	}
	if resp.Entries == nil {
		resp.Entries = []Entry{}
	}
	return resp.Entries, nil
}
