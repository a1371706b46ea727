package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/subscriber"
)

type collector struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *collector) handle(_ context.Context, _ string, data []byte) error {
	c.mu.Lock()
	c.messages = append(c.messages, data)
	c.mu.Unlock()
	return nil
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func newMemorySubscriber(t *testing.T, subject string, c *collector) {
	t.Helper()

	sub := subscriber.NewMemorySubscriber(subscriber.Config{Logger: logging.NewNop()})
	require.NoError(t, sub.Subscribe(context.Background(), subject, c.handle))
	t.Cleanup(func() { _ = sub.Close() })
}

func TestMemoryPublisher_Publish(t *testing.T) {
	c := &collector{}
	newMemorySubscriber(t, "queue.memory.publish", c)

	p := NewMemoryPublisher()
	require.NoError(t, p.Publish(context.Background(), "queue.memory.publish", []byte("hello")))

	assert.Eventually(t, func() bool { return c.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), p.Published())
}

func TestMemoryPublisher_NoSubscriber(t *testing.T) {
	p := NewMemoryPublisher()
	err := p.Publish(context.Background(), "queue.memory.nobody", []byte("x"))
	assert.Error(t, err)
	assert.Equal(t, int64(0), p.Published())
}

func TestMemoryPublisher_Closed(t *testing.T) {
	c := &collector{}
	newMemorySubscriber(t, "queue.memory.closed", c)

	p := NewMemoryPublisher()
	require.NoError(t, p.Close())
	assert.Error(t, p.Publish(context.Background(), "queue.memory.closed", []byte("x")))
}

func TestMemoryPublisher_PublishBatch(t *testing.T) {
	c := &collector{}
	newMemorySubscriber(t, "queue.memory.batch", c)

	p := NewMemoryPublisher()
	n, err := p.PublishBatch(context.Background(), []BatchMessage{
		{Subject: "queue.memory.batch", Data: []byte("a")},
		{Subject: "queue.memory.nobody", Data: []byte("b")},
		{Subject: "queue.memory.batch", Data: []byte("c")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Eventually(t, func() bool { return c.count() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestMemoryPublisher_PublishBatchAllFail(t *testing.T) {
	p := NewMemoryPublisher()
	n, err := p.PublishBatch(context.Background(), []BatchMessage{
		{Subject: "queue.memory.none", Data: []byte("a")},
	})
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}
