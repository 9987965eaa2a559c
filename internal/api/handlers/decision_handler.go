package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/microsoc/command-centre/internal/blocklist"
	"github.com/microsoc/command-centre/internal/classifier"
	"github.com/microsoc/command-centre/internal/logger"
	"github.com/microsoc/command-centre/internal/metrics"
	"github.com/microsoc/command-centre/internal/models"
	"github.com/microsoc/command-centre/internal/queue"
	"github.com/microsoc/command-centre/internal/services"
	"github.com/microsoc/command-centre/internal/storage"
)

// DecisionHandler is the synchronous front of the pipeline: classify, enforce,
// enqueue, answer. Persistence and downstream delivery happen later in the
// delivery worker; the caller never waits on them.
type DecisionHandler struct {
	classifier    *classifier.Classifier
	blocklist     *blocklist.Blocklist
	queue         queue.Queue
	store         *storage.LogStore
	alerts        *services.AlertService
	blockDuration time.Duration
}

// NewDecisionHandler wires the decision endpoint. store may be nil.
func NewDecisionHandler(
	cls *classifier.Classifier,
	bl *blocklist.Blocklist,
	q queue.Queue,
	store *storage.LogStore,
	alerts *services.AlertService,
	blockDuration time.Duration,
) *DecisionHandler {
	return &DecisionHandler{
		classifier:    cls,
		blocklist:     bl,
		queue:         q,
		store:         store,
		alerts:        alerts,
		blockDuration: blockDuration,
	}
}

// Decide handles POST /security/decision. Validation failures produce a WARN
// verdict, not an HTTP error: callers always get a verdict.
func (h *DecisionHandler) Decide(c *gin.Context) {
	var req models.DecisionRequest
	_ = c.ShouldBindJSON(&req)
	req.Normalize()

	now := time.Now().Unix()

	if req.IP == "" {
		c.JSON(http.StatusOK, models.Verdict{
			UUID:       uuid.NewString(),
			Path:       req.Path,
			Method:     req.Method,
			Status:     models.StatusWarn,
			AttackType: models.AttackNormal,
			Timestamp:  now,
			Reason:     "Missing ip",
		})
		return
	}

	v := h.classifier.Classify(req)
	v.UUID = uuid.NewString()
	v.Timestamp = now

	if v.Status == models.StatusBlock {
		h.blocklist.Block(v.IP, v.AttackType, h.blockDuration)
	}

	metrics.IncDecision(string(v.Status))
	if v.AttackType != models.AttackNormal {
		metrics.IncAttack(v.AttackType)
	}

	h.queue.Push(v)

	// ALLOW verdicts are also written straight through when the store is up,
	// so benign traffic shows in the dashboard without waiting for a worker
	// cycle. Fire-and-forget: the decision path does not await persistence.
	if v.Status == models.StatusAllow && h.store != nil {
		go func(v models.Verdict) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.store.Upsert(ctx, v); err != nil {
				logger.WithFields(map[string]interface{}{"ip": v.IP}).
					Warnf("inline allow write failed: %v", err)
			}
		}(v)
	}

	h.alerts.NotifyBlock(v)

	c.JSON(http.StatusOK, v)
}
