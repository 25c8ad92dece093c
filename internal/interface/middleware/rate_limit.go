package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP and route
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits by authenticated user; anonymous requests fall back to IP
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid
	}
}

// INCR and set the window on first hit; returns {count, pttl}.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type AllowFunc func(*gin.Context) bool // return true to bypass the limit

// Limiter is a fixed-window counter stored in Redis. It fails open: when Redis
// is unreachable the request passes and the error is logged.
type Limiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
	keyFn  KeyFunc
	allow  AllowFunc
	logger logrus.FieldLogger
	msg    string
}

type LimiterOption func(*Limiter)

func WithAllow(a AllowFunc) LimiterOption { return func(l *Limiter) { l.allow = a } }

func WithLimitMessage(msg string) LimiterOption { return func(l *Limiter) { l.msg = msg } }

func WithLimitLogger(logger logrus.FieldLogger) LimiterOption {
	return func(l *Limiter) { l.logger = logger }
}

// RateLimit returns a no-op handler when rdb is nil or the limits are not positive.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, opts ...LimiterOption) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	l := &Limiter{rdb: rdb, max: max, window: window, keyFn: keyFn, msg: "Too many requests, please try again later."}
	for _, o := range opts {
		o(l)
	}
	return l.Handle
}

func (l *Limiter) Handle(c *gin.Context) {
	if l.allow != nil && l.allow(c) {
		c.Next()
		return
	}
	if strings.EqualFold(c.Request.Method, http.MethodOptions) {
		c.Next()
		return
	}

	key := l.keyFn(c)
	res, err := incrExpireScript.Run(c.Request.Context(), l.rdb, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		if l.logger != nil {
			l.logger.WithError(err).WithField("key", key).Warn("rate limiter unavailable, allowing request")
		}
		c.Next()
		return
	}
	count, pttl := int(res[0]), res[1]
	resetSec := 0
	if pttl > 0 {
		resetSec = int((time.Duration(pttl)*time.Millisecond + time.Second - 1) / time.Second)
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(l.max))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

	if count > l.max {
		if resetSec > 0 {
			c.Header("Retry-After", strconv.Itoa(resetSec))
		}
		response.Message(c, http.StatusTooManyRequests, l.msg)
		return
	}
	c.Next()
}
