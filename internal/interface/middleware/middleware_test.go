package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": id.ID, "role": id.Role})
	})
	return r
}

func do(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerAuth(t *testing.T) {
	jm := helpers.NewJWTManager("secret", time.Hour)
	tok, _, err := jm.GenerateAccessToken(entity.Identity{ID: "u-1", Email: "a@x.com", Role: entity.RoleUser})
	require.NoError(t, err)
	r := newEngine(BearerAuth(jm))

	w := do(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided or invalid format")

	w = do(r, map[string]string{"Authorization": "Token " + tok})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided or invalid format")

	w = do(r, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")

	w = do(r, map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u-1","role":"user"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	jm := helpers.NewJWTManager("secret", time.Hour)
	user, _, _ := jm.GenerateAccessToken(entity.Identity{ID: "u-1", Role: entity.RoleUser})
	admin, _, _ := jm.GenerateAccessToken(entity.Identity{ID: "a-1", Role: entity.RoleAdmin})
	r := newEngine(BearerAuth(jm), RequireRole(entity.RoleAdmin))

	w := do(r, map[string]string{"Authorization": "Bearer " + user})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Forbidden: Admin access required"}`, w.Body.String())

	w = do(r, map[string]string{"Authorization": "Bearer " + admin})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	w := do(newEngine(RequireRole(entity.RoleAdmin)), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newEngine(RealIP(true), RateLimit(rdb, 2, time.Minute, KeyByIP(), WithLimitMessage("slow down")))
	h := map[string]string{"X-Forwarded-For": "203.0.113.7"}

	w := do(r, h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, do(r, h).Code)

	w = do(r, h)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"slow down"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// other clients have their own window
	assert.Equal(t, http.StatusOK, do(r, map[string]string{"X-Forwarded-For": "203.0.113.8"}).Code)

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, do(r, h).Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	r := newEngine(RateLimit(rdb, 1, time.Minute, KeyByIP(), WithLimitLogger(helpers.NewNopLogger())))

	mr.Close()
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := newEngine(RateLimit(nil, 1, time.Minute, KeyByIP()))
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
}

func TestRateLimit_AllowPrivateIP(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r := newEngine(RealIP(true), RateLimit(rdb, 1, time.Minute, KeyByIP(), WithAllow(AllowPrivateIP())))

	h := map[string]string{"X-Forwarded-For": "10.1.2.3"}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, h).Code)
	}
}

func TestRealIP(t *testing.T) {
	var got string
	r := gin.New()
	r.Use(RealIP(true))
	r.GET("/x", func(c *gin.Context) { got = c.GetString("real_ip") })

	do(r, map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "203.0.113.9"})
	assert.Equal(t, "198.51.100.1", got)

	do(r, map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"})
	assert.Equal(t, "203.0.113.9", got)

	r2 := gin.New()
	require.NoError(t, r2.SetTrustedProxies(nil))
	r2.Use(RealIP(false))
	r2.GET("/x", func(c *gin.Context) { got = c.GetString("real_ip") })
	do(r2, map[string]string{"X-Forwarded-For": "203.0.113.9"})
	assert.Equal(t, "192.0.2.1", got)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestIDMiddleware())

	w := do(r, nil)
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)

	incoming := "0b5c3a8e-6a35-4a8f-9d55-2d6a1f6e8c11"
	w = do(r, map[string]string{HeaderRequestID: incoming})
	assert.Equal(t, incoming, w.Header().Get(HeaderRequestID))

	w = do(r, map[string]string{HeaderRequestID: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(helpers.NewNopLogger()))
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	w := do(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}
