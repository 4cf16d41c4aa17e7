package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// StatsPort is the port driving adapters use to read cache statistics.
type StatsPort interface {
	Stats(ctx context.Context) (StatsSnapshot, error)
}

type statsAdapter struct {
	container mono.ServiceContainer
}

// NewStatsAdapter creates a new adapter for the cache stats service.
func NewStatsAdapter(container mono.ServiceContainer) StatsPort {
	if container == nil {
		panic("cache adapter requires non-nil ServiceContainer")
	}
	return &statsAdapter{container: container}
}

// Stats fetches cache statistics via the stats service.
func (a *statsAdapter) Stats(ctx context.Context) (StatsSnapshot, error) {
	req := StatsRequest{}
	var resp StatsSnapshot
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceStats,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return StatsSnapshot{}, fmt.Errorf("%s service call failed: %w", ServiceStats, err)
	}
	return resp, nil
}
