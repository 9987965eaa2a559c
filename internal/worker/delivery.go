// Package worker drains the verdict queue in the background and fans each
// batch out to the persistent store and the downstream collector.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/microsoc/command-centre/internal/logger"
	"github.com/microsoc/command-centre/internal/metrics"
	"github.com/microsoc/command-centre/internal/queue"
	"github.com/microsoc/command-centre/internal/relay"
	"github.com/microsoc/command-centre/internal/storage"
)

const (
	// batchSize caps how many records one cycle drains.
	batchSize = 100

	// sinkTimeout bounds each storage or relay call so a slow sink cannot
	// stall future cycles.
	sinkTimeout = 5 * time.Second
)

// Sweeper is any component with stale state worth evicting on a slow cadence
// (the classifier's rolling counters).
type Sweeper interface {
	SweepCounters() int
}

// Delivery is the recurring drain task. Cycles run at a fixed one-second
// cadence and never overlap: a cycle still in flight causes the next tick to
// be skipped rather than doubled up.
type Delivery struct {
	queue   queue.Queue
	store   *storage.LogStore
	relay   *relay.Client
	sweeper Sweeper
	cron    *cron.Cron
}

// New wires a delivery worker. store may be nil (no persistence) and sweeper
// may be nil.
func New(q queue.Queue, store *storage.LogStore, relayClient *relay.Client, sweeper Sweeper) *Delivery {
	return &Delivery{
		queue:   q,
		store:   store,
		relay:   relayClient,
		sweeper: sweeper,
	}
}

// Start schedules the drain cycle and the counter sweep.
func (d *Delivery) Start() error {
	d.cron = cron.New(cron.WithSeconds(), cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	if _, err := d.cron.AddFunc("@every 1s", d.runCycle); err != nil {
		return err
	}
	if d.sweeper != nil {
		if _, err := d.cron.AddFunc("@every 1m", d.runSweep); err != nil {
			return err
		}
	}

	d.cron.Start()
	logger.Log().Info("delivery worker started")
	return nil
}

// Stop halts the schedule and waits for an in-flight cycle to finish, so a
// batch is always fully attempted or not attempted at all.
func (d *Delivery) Stop() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
	logger.Log().Info("delivery worker stopped")
}

func (d *Delivery) runCycle() {
	d.RunCycle(context.Background())
}

// RunCycle performs one drain: pop a batch, bulk-upsert it, forward the same
// ungrouped batch downstream. Each sink fails independently; a relay failure
// drops the batch after this one attempt (no retry queue).
func (d *Delivery) RunCycle(ctx context.Context) {
	popCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
	batch, err := d.queue.PopBatch(popCtx, batchSize)
	cancel()
	if err != nil {
		logger.Log().Warnf("queue drain failed: %v", err)
		return
	}
	if len(batch) == 0 {
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
	if err := d.store.UpsertBatch(storeCtx, batch); err != nil {
		metrics.IncStorageFailure()
		logger.Log().Warnf("storage write failed, still forwarding batch: %v", err)
	}
	cancel()

	relayCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
	err = d.relay.Send(relayCtx, batch)
	cancel()
	if err != nil {
		metrics.IncBatchDropped()
		logger.WithFields(map[string]interface{}{"batch_size": len(batch)}).
			Warnf("downstream delivery failed, batch dropped: %v", err)
		return
	}

	metrics.IncBatchDelivered()
	logger.WithFields(map[string]interface{}{"batch_size": len(batch)}).
		Debug("batch delivered downstream")
}

func (d *Delivery) runSweep() {
	if removed := d.sweeper.SweepCounters(); removed > 0 {
		logger.WithFields(map[string]interface{}{"removed": removed}).
			Debug("evicted idle rolling-counter entries")
	}
}
