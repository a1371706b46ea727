package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/soltixdb/cyclepeak/internal/models"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

// ChunkObservations splits values into batches of at most batchSize values
// addressed to the same pass. batchSize <= 0 uses utils.DefaultBatchSize.
func ChunkObservations(passID, kind string, values []string, batchSize int) []*models.ObservationBatch {
	if batchSize <= 0 {
		batchSize = utils.DefaultBatchSize
	}

	sentAt := time.Now().UTC().Format(time.RFC3339Nano)
	batches := make([]*models.ObservationBatch, 0, (len(values)+batchSize-1)/batchSize)
	for start := 0; start < len(values); start += batchSize {
		end := min(start+batchSize, len(values))
		batches = append(batches, &models.ObservationBatch{
			PassID: passID,
			Kind:   kind,
			Values: values[start:end],
			SentAt: sentAt,
		})
	}
	return batches
}

// PublishObservations encodes values as observation batches and publishes
// them to subject. It returns the number of batches accepted and an error
// unless every batch was accepted.
func PublishObservations(ctx context.Context, p Publisher, subject, passID, kind string, values []string, batchSize int) (int, error) {
	batches := ChunkObservations(passID, kind, values, batchSize)
	if len(batches) == 0 {
		return 0, nil
	}

	messages := make([]BatchMessage, 0, len(batches))
	for i, b := range batches {
		data, err := models.EncodeObservationBatch(b)
		if err != nil {
			return 0, fmt.Errorf("failed to encode batch %d: %w", i, err)
		}
		messages = append(messages, BatchMessage{Subject: subject, Data: data})
	}

	n, err := p.PublishBatch(ctx, messages)
	if err != nil {
		return n, err
	}
	if n < len(messages) {
		return n, fmt.Errorf("published %d of %d batches to %s", n, len(messages), subject)
	}
	return n, nil
}
