package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/microsoc/command-centre/internal/blocklist"
	"github.com/microsoc/command-centre/internal/queue"
	"github.com/microsoc/command-centre/internal/storage"
)

// LogsHandler exposes the stored verdicts and live enforcement state for the
// command-centre dashboard.
type LogsHandler struct {
	store     *storage.LogStore
	blocklist *blocklist.Blocklist
	queue     queue.Queue
}

// NewLogsHandler creates the read-side handler. store may be nil.
func NewLogsHandler(store *storage.LogStore, bl *blocklist.Blocklist, q queue.Queue) *LogsHandler {
	return &LogsHandler{store: store, blocklist: bl, queue: q}
}

// maxListLimit caps how many rows one dashboard query may pull.
const maxListLimit = 1000

// ListDecisions returns recent stored verdicts, newest first.
func (h *LogsHandler) ListDecisions(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		limit = n
	}

	logs, err := h.store.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list decisions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": logs, "count": len(logs)})
}

// ListBlocked returns the currently enforced blocks.
func (h *LogsHandler) ListBlocked(c *gin.Context) {
	active := h.blocklist.Active()
	c.JSON(http.StatusOK, gin.H{"blocked": active, "count": len(active)})
}

// Status summarises pipeline state for operators.
func (h *LogsHandler) Status(c *gin.Context) {
	stored, err := h.store.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queue_backend":   h.queue.Backend(),
		"stored_verdicts": stored,
		"active_blocks":   len(h.blocklist.Active()),
		"storage_enabled": h.store != nil,
	})
}
