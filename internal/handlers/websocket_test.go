package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/dkmwangi/cabride-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebSocketRouter(t *testing.T, userID uint, role models.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := services.NewHub()
	go hub.Run()

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("userRole", int(role))
	}, WebSocketHandler(hub))
	return r
}

func TestWebSocketRequiresLiveSession(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())
	require.NoError(t, services.InitRedis())

	r := newWebSocketRouter(t, 3, models.RoleCustomer)

	// A valid token is not enough when the server-side session is gone.
	req, err := http.NewRequest(http.MethodGet, "/ws", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	// With a live session the handler proceeds to the upgrade, which rejects
	// a plain HTTP request instead.
	require.NoError(t, services.SetSession(context.Background(), 3, models.RoleCustomer))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)
}
