package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	decisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "msc_decisions_total",
		Help: "Total number of decision requests evaluated, by verdict status",
	}, []string{"status"})
	attacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "msc_attacks_detected_total",
		Help: "Total number of non-normal classifications, by attack type",
	}, []string{"attack_type"})
	queueFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "msc_queue_fallback_pushes_total",
		Help: "Records diverted to the in-process buffer after a Redis push failure",
	})
	batchesDeliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "msc_relay_batches_delivered_total",
		Help: "Verdict batches accepted by the downstream collector",
	})
	batchesDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "msc_relay_batches_dropped_total",
		Help: "Verdict batches dropped after a failed delivery attempt",
	})
	storageFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "msc_storage_write_failures_total",
		Help: "Bulk upsert attempts that failed against the verdict store",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		decisionsTotal,
		attacksTotal,
		queueFallbackTotal,
		batchesDeliveredTotal,
		batchesDroppedTotal,
		storageFailuresTotal,
	)
}

// IncDecision counts one evaluated decision with its final status.
func IncDecision(status string) { decisionsTotal.WithLabelValues(status).Inc() }

// IncAttack counts one non-normal classification.
func IncAttack(attackType string) { attacksTotal.WithLabelValues(attackType).Inc() }

// IncQueueFallback counts one record rerouted to the in-process buffer.
func IncQueueFallback() { queueFallbackTotal.Inc() }

// IncBatchDelivered counts one batch accepted downstream.
func IncBatchDelivered() { batchesDeliveredTotal.Inc() }

// IncBatchDropped counts one batch dropped after a failed attempt.
func IncBatchDropped() { batchesDroppedTotal.Inc() }

// IncStorageFailure counts one failed bulk upsert.
func IncStorageFailure() { storageFailuresTotal.Inc() }
