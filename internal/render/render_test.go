package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuel-koch/go-serial-hud/internal/logging"
	"github.com/manuel-koch/go-serial-hud/internal/series"
)

type collector struct {
	mu    sync.Mutex
	snaps []series.Snapshot
}

func (c *collector) Show(s series.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, s)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snaps)
}

func TestTask_TicksIndependentOfSamples(t *testing.T) {
	store, err := series.NewStore(10, 10)
	require.NoError(t, err)
	c := &collector{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(store, c, 5*time.Millisecond, logging.Nop()).Run(ctx) }()

	assert.Eventually(t, func() bool { return c.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.snaps {
		assert.True(t, s.Empty())
	}
}

func TestTask_ConcurrentAppend(t *testing.T) {
	store, err := series.NewStore(32, 4)
	require.NoError(t, err)

	var misaligned int
	var mu sync.Mutex
	consumer := ConsumerFunc(func(s series.Snapshot) {
		if !s.Aligned() {
			mu.Lock()
			misaligned++
			mu.Unlock()
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(store, consumer, time.Millisecond, logging.Nop()).Run(ctx) }()

	for i := 0; i < 5000; i++ {
		store.Append(float64(i%10) + 1)
	}
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, misaligned)
}

func TestLogConsumer(t *testing.T) {
	var buf bytes.Buffer
	consumer := NewLogConsumer(logging.NewWithWriter(&buf, zerolog.InfoLevel))

	store, err := series.NewStore(5, 10)
	require.NoError(t, err)

	consumer.Show(store.Snapshot())
	assert.Zero(t, buf.Len(), "empty snapshot renders nothing")

	store.Append(2)
	store.Append(4)
	consumer.Show(store.Snapshot())
	consumer.Show(store.Snapshot())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m))
	assert.Equal(t, float64(1), m["index"])
	assert.Equal(t, float64(4), m["value"])
	assert.Equal(t, float64(3), m["average"])
	assert.Equal(t, float64(4), m["max"])
	assert.Equal(t, "headless", m["component"])
}
