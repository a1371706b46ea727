package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/cyclepeak/internal/aggregation"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/models"
	"github.com/soltixdb/cyclepeak/internal/queue"
	"github.com/soltixdb/cyclepeak/internal/services"
	"github.com/soltixdb/cyclepeak/internal/subscriber"
)

func newTestService() *services.PeakService {
	logger := logging.NewNop()
	return services.NewPeakService(
		logger,
		aggregation.NewReducer(aggregation.ReducerConfig{Workers: 2, ShardSize: 8}, logger),
		aggregation.NewPassRegistry(0),
		services.PeakServiceConfig{Location: time.UTC},
	)
}

func startConsumer(t *testing.T, subject string, svc *services.PeakService) *Consumer {
	t.Helper()

	sub := subscriber.NewMemorySubscriber(subscriber.Config{Logger: logging.NewNop()})
	c, err := NewConsumer(sub, subject, svc, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start())
	t.Cleanup(func() { _ = c.Stop() })
	return c
}

func TestNewConsumer_Validation(t *testing.T) {
	sub := subscriber.NewMemorySubscriber(subscriber.Config{})
	svc := newTestService()

	_, err := NewConsumer(nil, "s", svc, nil)
	assert.Error(t, err)

	_, err = NewConsumer(sub, "s", nil, nil)
	assert.Error(t, err)

	_, err = NewConsumer(sub, "", svc, nil)
	assert.Error(t, err)
}

func TestConsumer_AppliesPublishedBatches(t *testing.T) {
	svc := newTestService()
	c := startConsumer(t, "ingest.apply", svc)

	values := []string{"23:00", "01:00", "23:30", "00:30"}
	n, err := queue.PublishObservations(context.Background(), queue.NewMemoryPublisher(),
		"ingest.apply", "night", "time_of_day", values, 3)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.Eventually(t, func() bool {
		pass, err := svc.GetPass("night")
		return err == nil && pass.Count == 4
	}, 2*time.Second, 10*time.Millisecond)

	peak, err := svc.PassPeak("night")
	require.NoError(t, err)
	require.NotNil(t, peak.Peak)
	assert.Equal(t, "00:00:00", *peak.Peak)
	assert.Eventually(t, func() bool {
		return c.Stats()["processed"] == int64(2)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumer_DropsMalformedMessages(t *testing.T) {
	svc := newTestService()
	c := startConsumer(t, "ingest.malformed", svc)

	require.Equal(t, 1, subscriber.PublishToMemory("ingest.malformed", []byte("not a batch")))

	assert.Eventually(t, func() bool {
		return c.Stats()["rejected"] == int64(1)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, svc.ListPasses().Passes)
}

func TestConsumer_HandleMessage(t *testing.T) {
	svc := newTestService()
	sub := subscriber.NewMemorySubscriber(subscriber.Config{})
	c, err := NewConsumer(sub, "ingest.direct", svc, logging.NewNop())
	require.NoError(t, err)

	encode := func(b *models.ObservationBatch) []byte {
		data, err := models.EncodeObservationBatch(b)
		require.NoError(t, err)
		return data
	}

	// creates the pass
	err = c.handleMessage(context.Background(), "ingest.direct", encode(&models.ObservationBatch{
		PassID: "p1", Kind: "month", Values: []string{"2024-03-10", "2024-03-20"},
	}))
	require.NoError(t, err)

	// invalid observation is acknowledged and counted
	err = c.handleMessage(context.Background(), "ingest.direct", encode(&models.ObservationBatch{
		PassID: "p1", Kind: "month", Values: []string{"not-a-date"},
	}))
	require.NoError(t, err)

	// kind mismatch is acknowledged and counted
	err = c.handleMessage(context.Background(), "ingest.direct", encode(&models.ObservationBatch{
		PassID: "p1", Kind: "time_of_day", Values: []string{"10:00"},
	}))
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["processed"])
	assert.Equal(t, int64(2), stats["rejected"])

	pass, err := svc.GetPass("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), pass.Count)
	require.NotNil(t, pass.Peak)
	require.NotNil(t, pass.Peak.Peak)
	assert.Equal(t, "March", *pass.Peak.Peak)
}

func TestConsumer_HandleMessageCancelled(t *testing.T) {
	svc := newTestService()
	c, err := NewConsumer(subscriber.NewMemorySubscriber(subscriber.Config{}), "ingest.cancel", svc, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.handleMessage(ctx, "ingest.cancel", []byte("ignored"))
	assert.ErrorIs(t, err, context.Canceled)
}
