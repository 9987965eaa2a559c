package queue

import (
	"context"
	"sync"

	"github.com/microsoc/command-centre/internal/models"
)

// memoryQueue is the volatile in-process FIFO. Contents are lost on process
// exit; that trade-off is accepted for degraded operation.
type memoryQueue struct {
	mu      sync.Mutex
	records []models.Verdict
}

// NewMemory returns an empty in-process queue.
func NewMemory() Queue {
	return &memoryQueue{}
}

func (q *memoryQueue) Push(v models.Verdict) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.records = append(q.records, v)
}

func (q *memoryQueue) PopBatch(_ context.Context, max int) ([]models.Verdict, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.records) == 0 || max <= 0 {
		return nil, nil
	}
	n := max
	if n > len(q.records) {
		n = len(q.records)
	}

	batch := make([]models.Verdict, n)
	copy(batch, q.records[:n])
	q.records = append(q.records[:0], q.records[n:]...)
	return batch, nil
}

func (q *memoryQueue) Backend() string { return "memory" }
