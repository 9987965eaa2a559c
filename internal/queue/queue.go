// Package queue buffers verdict records between the decision path and the
// delivery worker. The preferred backend is a Redis list shared with other
// collectors; when Redis is unreachable the queue degrades to an in-process
// buffer so no verdict is ever lost to a transient backend error.
package queue

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/microsoc/command-centre/internal/logger"
	"github.com/microsoc/command-centre/internal/models"
)

// redisKey is the shared list name, kept compatible with the other
// command-centre collectors that read the same queue.
const redisKey = "attack_logs_queue"

// probeTimeout bounds the single startup reachability check.
const probeTimeout = 2 * time.Second

// Queue is the resilient verdict buffer. Push never fails the caller;
// PopBatch returns up to max records from one backend per call, preserving
// per-source FIFO order.
type Queue interface {
	Push(v models.Verdict)
	PopBatch(ctx context.Context, max int) ([]models.Verdict, error)
	Backend() string
}

// New probes Redis once and returns a queue backed by it, or the in-process
// fallback when the probe fails. The active backend is fixed for the life of
// the process.
func New(addr string) Queue {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.WithFields(map[string]interface{}{"addr": addr}).
			Warnf("redis unreachable, using in-memory log queue: %v", err)
		return NewMemory()
	}

	logger.WithFields(map[string]interface{}{"addr": addr}).
		Info("redis connected, using redis-backed log queue")
	return NewRedis(client)
}
