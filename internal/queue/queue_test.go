package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/microsoc/command-centre/internal/models"
)

func verdict(ip string) models.Verdict {
	return models.Verdict{IP: ip, Path: "/", Method: "GET", Status: models.StatusAllow, AttackType: "normal"}
}

func TestMemoryQueue_FIFO(t *testing.T) {
	q := NewMemory()

	q.Push(verdict("1.1.1.1"))
	q.Push(verdict("2.2.2.2"))
	q.Push(verdict("3.3.3.3"))

	batch, err := q.PopBatch(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.Equal(t, "1.1.1.1", batch[0].IP)
	assert.Equal(t, "2.2.2.2", batch[1].IP)

	batch, err = q.PopBatch(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, batch, 1)
	assert.Equal(t, "3.3.3.3", batch[0].IP)
}

func TestMemoryQueue_EmptyPop(t *testing.T) {
	q := NewMemory()

	batch, err := q.PopBatch(context.Background(), 10)
	assert.NoError(t, err)
	assert.Empty(t, batch)
}

func TestMemoryQueue_Backend(t *testing.T) {
	assert.Equal(t, "memory", NewMemory().Backend())
}

func TestMemoryQueue_ManyRecordsBounded(t *testing.T) {
	q := NewMemory()
	for i := 0; i < 250; i++ {
		q.Push(verdict(fmt.Sprintf("10.0.0.%d", i)))
	}

	batch, err := q.PopBatch(context.Background(), 100)
	assert.NoError(t, err)
	assert.Len(t, batch, 100)
	assert.Equal(t, "10.0.0.0", batch[0].IP)
}

// unreachableRedis returns a queue whose Redis side refuses connections, so
// every push has to take the downgrade path.
func unreachableRedis() Queue {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewRedis(client)
}

func TestRedisQueue_PushNeverFailsCaller(t *testing.T) {
	q := unreachableRedis()

	assert.NotPanics(t, func() {
		q.Push(verdict("1.2.3.4"))
	})
}

func TestRedisQueue_DowngradeRoutesToFallback(t *testing.T) {
	q := unreachableRedis()

	q.Push(verdict("1.2.3.4"))
	q.Push(verdict("5.6.7.8"))

	batch, err := q.PopBatch(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.Equal(t, "1.2.3.4", batch[0].IP)
	assert.Equal(t, "5.6.7.8", batch[1].IP)
}

func TestRedisQueue_Backend(t *testing.T) {
	assert.Equal(t, "redis", unreachableRedis().Backend())
}

func TestNew_FallsBackWhenRedisUnreachable(t *testing.T) {
	q := New("127.0.0.1:1")
	assert.Equal(t, "memory", q.Backend())
}
