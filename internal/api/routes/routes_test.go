package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/microsoc/command-centre/internal/blocklist"
	"github.com/microsoc/command-centre/internal/classifier"
	"github.com/microsoc/command-centre/internal/queue"
	"github.com/microsoc/command-centre/internal/services"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	bl := blocklist.New()
	router := gin.New()
	Register(router, Deps{
		Classifier:    classifier.New(bl, nil),
		Blocklist:     bl,
		Queue:         queue.NewMemory(),
		Alerts:        services.NewAlertService(""),
		BlockDuration: 10 * time.Minute,
	})
	return router
}

func TestRegister_RoutesReachable(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/metrics"},
		{http.MethodGet, "/api/v1/health"},
		{http.MethodGet, "/api/v1/blocklist"},
		{http.MethodGet, "/api/v1/status"},
		{http.MethodPost, "/security/decision"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRegister_RequestIDHeaderPresent(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
