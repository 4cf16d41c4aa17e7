package activity

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_RecordAndRecent(t *testing.T) {
	f := NewFeed(10)
	now := time.Now()

	first := f.Record(KindCreated, 1, "first", now)
	second := f.Record(KindUpdated, 1, "second", now.Add(time.Second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	entries := f.Recent(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "first", entries[1].Message)
}

func TestFeed_RecentLimit(t *testing.T) {
	f := NewFeed(10)
	for i := 1; i <= 5; i++ {
		f.Record(KindCreated, int64(i), fmt.Sprintf("todo %d", i), time.Now())
	}

	entries := f.Recent(2)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(5), entries[0].TodoID)
	assert.Equal(t, int64(4), entries[1].TodoID)

	assert.Len(t, f.Recent(50), 5)
}

func TestFeed_DropsOldest(t *testing.T) {
	f := NewFeed(3)
	for i := 1; i <= 5; i++ {
		f.Record(KindCreated, int64(i), "", time.Now())
	}

	assert.Equal(t, 3, f.Len())
	entries := f.Recent(0)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(5), entries[0].TodoID)
	assert.Equal(t, int64(3), entries[2].TodoID)
}

func TestNewFeed_DefaultLimit(t *testing.T) {
	f := NewFeed(0)
	assert.Equal(t, DefaultLimit, f.limit)
}

func TestFeed_ConcurrentRecord(t *testing.T) {
	f := NewFeed(1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			f.Record(KindCreated, id, "", time.Now())
			_ = f.Recent(5)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 50, f.Len())
}
