package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-terms/internal/router/modules"
)

// withRedis points the limiters at a fresh miniredis and rebuilds the routes.
func (a *testApp) withRedis() {
	a.t.Helper()
	mr := miniredis.RunT(a.t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	a.t.Cleanup(func() { _ = rdb.Close() })
	a.c.Redis = rdb
	a.engine = NewEngine(a.c)
}

func TestSeedUsers_RateLimitedPerAdmin(t *testing.T) {
	app := newTestApp(t)
	app.withRedis()
	_, err := app.c.UserService.EnsureAdmin(context.Background(), "ops@x.com", adminPass)
	require.NoError(t, err)
	root := app.login(adminEmail, adminPass)
	ops := app.login("ops@x.com", adminPass)

	for i := 0; i < modules.SeedLimit; i++ {
		w := app.do(http.MethodPost, "/api/init/seed-users?count=1", root, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := app.do(http.MethodPost, "/api/init/seed-users?count=1", root, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many seed requests, please try again later.", decode(t, w)["error"])

	w = app.do(http.MethodPost, "/api/init/seed-users?count=1", ops, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBroadcast_RateLimitExemptsAdmins(t *testing.T) {
	app := newTestApp(t)
	app.withRedis()
	admin := app.login(adminEmail, adminPass)
	w := app.do(http.MethodPost, "/users", "", gin.H{"firstName": "F", "lastName": "L", "email": "u@x.com", "password": "Passw0rd!"})
	require.Equal(t, http.StatusCreated, w.Code)
	user := app.login("u@x.com", "Passw0rd!")

	for i := 0; i < modules.BroadcastLimit; i++ {
		require.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/broadcast", user, gin.H{"message": "hi"}).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, app.do(http.MethodPost, "/broadcast", user, gin.H{"message": "hi"}).Code)

	for i := 0; i <= modules.BroadcastLimit; i++ {
		require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/broadcast", admin, gin.H{"message": "hi"}).Code)
	}
}

func TestDebugVars_PrivateClientsBypassLimit(t *testing.T) {
	app := newTestApp(t)
	app.c.Config.DebugMetricsEnabled = true
	app.withRedis()

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		app.engine.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 120; i++ {
		require.Equal(t, http.StatusOK, get("203.0.113.9"))
	}
	assert.Equal(t, http.StatusTooManyRequests, get("203.0.113.9"))

	for i := 0; i <= 120; i++ {
		require.Equal(t, http.StatusOK, get("10.0.0.5"))
	}
}
