package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/microsoc/command-centre/internal/blocklist"
	"github.com/microsoc/command-centre/internal/classifier"
	"github.com/microsoc/command-centre/internal/models"
	"github.com/microsoc/command-centre/internal/queue"
	"github.com/microsoc/command-centre/internal/services"
)

type decisionFixture struct {
	router    *gin.Engine
	blocklist *blocklist.Blocklist
	queue     queue.Queue
}

func newDecisionFixture() *decisionFixture {
	gin.SetMode(gin.TestMode)

	bl := blocklist.New()
	q := queue.NewMemory()
	h := NewDecisionHandler(classifier.New(bl, nil), bl, q, nil, services.NewAlertService(""), 10*time.Minute)

	router := gin.New()
	router.POST("/security/decision", h.Decide)

	return &decisionFixture{router: router, blocklist: bl, queue: q}
}

func (f *decisionFixture) decide(t *testing.T, body interface{}) (models.Verdict, *httptest.ResponseRecorder) {
	t.Helper()

	raw, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/security/decision", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var v models.Verdict
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v, rec
}

func (f *decisionFixture) queued(t *testing.T) []models.Verdict {
	t.Helper()

	batch, err := f.queue.PopBatch(context.Background(), 100)
	assert.NoError(t, err)
	return batch
}

func TestDecide_NormalRequestAllowed(t *testing.T) {
	f := newDecisionFixture()

	v, rec := f.decide(t, gin.H{
		"ip":         "8.8.8.8",
		"path":       "/api/products",
		"method":     "GET",
		"user_agent": "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusAllow, v.Status)
	assert.Equal(t, models.AttackNormal, v.AttackType)
	assert.NotEmpty(t, v.UUID)
	assert.NotZero(t, v.Timestamp)
	assert.False(t, f.blocklist.IsBlocked("8.8.8.8"))

	batch := f.queued(t)
	assert.Len(t, batch, 1)
	assert.Equal(t, v.UUID, batch[0].UUID)
}

func TestDecide_SQLInjectionBlocksAndEnqueues(t *testing.T) {
	f := newDecisionFixture()

	v, rec := f.decide(t, gin.H{
		"ip":         "192.168.1.100",
		"path":       "/api/users",
		"method":     "POST",
		"user_agent": "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
		"payload":    gin.H{"username": "admin' OR '1'='1"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusBlock, v.Status)
	assert.Equal(t, models.AttackSQLInjection, v.AttackType)
	assert.True(t, v.IsBlockedNow)
	assert.True(t, f.blocklist.IsBlocked("192.168.1.100"))

	batch := f.queued(t)
	assert.Len(t, batch, 1)
	assert.Equal(t, models.StatusBlock, batch[0].Status)
}

func TestDecide_BlockedIPShortCircuitsNextRequest(t *testing.T) {
	f := newDecisionFixture()

	f.decide(t, gin.H{
		"ip":      "192.168.1.100",
		"path":    "/api/users",
		"method":  "POST",
		"payload": gin.H{"username": "admin' OR '1'='1"},
	})

	// Follow-up benign request from the same address.
	v, _ := f.decide(t, gin.H{
		"ip":         "192.168.1.100",
		"path":       "/api/products",
		"method":     "GET",
		"user_agent": "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
	})

	assert.Equal(t, models.StatusBlock, v.Status)
	assert.Equal(t, models.AttackSQLInjection, v.AttackType)
	assert.False(t, v.IsBlockedNow)
	assert.Equal(t, "IP currently blocked", v.Reason)
}

func TestDecide_XSSWarnsWithoutBlocking(t *testing.T) {
	f := newDecisionFixture()

	v, _ := f.decide(t, gin.H{
		"ip":         "10.0.0.50",
		"path":       "/search",
		"method":     "GET",
		"user_agent": "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
		"payload":    gin.H{"q": "<script>alert(1)</script>"},
	})

	assert.Equal(t, models.StatusWarn, v.Status)
	assert.Equal(t, models.AttackXSS, v.AttackType)
	assert.False(t, v.IsBlockedNow)
	assert.False(t, f.blocklist.IsBlocked("10.0.0.50"))
	assert.Len(t, f.queued(t), 1)
}

func TestDecide_MissingIPWarnsWithoutSideEffects(t *testing.T) {
	f := newDecisionFixture()

	v, rec := f.decide(t, gin.H{"path": "/api/products", "method": "GET"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusWarn, v.Status)
	assert.Equal(t, "Missing ip", v.Reason)
	assert.NotEmpty(t, v.UUID)
	assert.NotZero(t, v.Timestamp)

	// No enforcement, no record: the verdict is advisory only.
	assert.Empty(t, f.queued(t))
	assert.Empty(t, f.blocklist.Active())
}

func TestDecide_MalformedBodyTreatedAsEmpty(t *testing.T) {
	f := newDecisionFixture()

	req := httptest.NewRequest(http.MethodPost, "/security/decision", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var v models.Verdict
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, models.StatusWarn, v.Status)
	assert.Equal(t, "Missing ip", v.Reason)
	assert.Equal(t, "/", v.Path)
	assert.Equal(t, "GET", v.Method)
}

func TestDecide_DefaultsAppliedBeforeClassification(t *testing.T) {
	f := newDecisionFixture()

	v, _ := f.decide(t, gin.H{
		"ip":         "8.8.4.4",
		"user_agent": "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
	})

	assert.Equal(t, "/", v.Path)
	assert.Equal(t, "GET", v.Method)
}
