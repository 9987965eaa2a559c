package queue

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/microsoc/command-centre/internal/logger"
	"github.com/microsoc/command-centre/internal/metrics"
	"github.com/microsoc/command-centre/internal/models"
)

// redisQueue pushes records onto a shared Redis list. A push that fails at
// call time diverts the record to the embedded in-process buffer instead of
// dropping it, so the caller never sees an error. Records that took the
// detour are drained by PopBatch only when the Redis side has nothing to
// offer, keeping each call single-backend and per-source FIFO intact.
type redisQueue struct {
	client   *redis.Client
	fallback Queue
}

// NewRedis wraps an already-connected client.
func NewRedis(client *redis.Client) Queue {
	return &redisQueue{
		client:   client,
		fallback: NewMemory(),
	}
}

func (q *redisQueue) Push(v models.Verdict) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log().Errorf("marshal verdict for queue: %v", err)
		return
	}

	if err := q.client.LPush(context.Background(), redisKey, data).Err(); err != nil {
		logger.WithFields(map[string]interface{}{"ip": v.IP}).
			Warnf("redis push failed, rerouting to in-memory buffer: %v", err)
		metrics.IncQueueFallback()
		q.fallback.Push(v)
	}
}

func (q *redisQueue) PopBatch(ctx context.Context, max int) ([]models.Verdict, error) {
	batch := make([]models.Verdict, 0, max)
	for len(batch) < max {
		data, err := q.client.RPop(ctx, redisKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			// Partial drains are fine; whatever we already popped is
			// returned, and records stuck behind the error stay queued.
			if len(batch) > 0 {
				return batch, nil
			}
			logger.Log().Warnf("redis pop failed, draining in-memory buffer: %v", err)
			return q.fallback.PopBatch(ctx, max)
		}

		var v models.Verdict
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			logger.Log().Errorf("discarding undecodable queue record: %v", err)
			continue
		}
		batch = append(batch, v)
	}

	if len(batch) > 0 {
		return batch, nil
	}
	return q.fallback.PopBatch(ctx, max)
}

func (q *redisQueue) Backend() string { return "redis" }
