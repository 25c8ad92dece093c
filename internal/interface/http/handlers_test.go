package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-terms/internal/application"
	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/internal/infrastructure/broadcast"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"up", nil, http.StatusOK, `{"ok":true}`},
		{"down", errors.New("connection refused"), http.StatusServiceUnavailable, `{"error":"Database unavailable"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(pingerFunc(func(context.Context) error { return tc.err }), helpers.NewNopLogger())
			r := gin.New()
			r.GET("/health", h.Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestBroadcastSend_RequiresIdentity(t *testing.T) {
	hub := broadcast.NewHub(1)
	h := NewBroadcastHandler(application.NewBroadcastService(hub), hub, time.Second)
	r := gin.New()
	r.POST("/broadcast", h.Send)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/broadcast", strings.NewReader(`{"message":"hi"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBroadcastStream(t *testing.T) {
	hub := broadcast.NewHub(4)
	h := NewBroadcastHandler(application.NewBroadcastService(hub), hub, 50*time.Millisecond)
	r := gin.New()
	r.GET("/broadcast/stream", h.Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/broadcast/stream", nil)
	require.NoError(t, err)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	rd := bufio.NewReader(res.Body)
	first, err := rd.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", first)
	require.Equal(t, 1, hub.Subscribers())

	sent := entity.BroadcastMessage{Text: "hello", Sender: "root@x.com", Timestamp: time.Now().UTC()}
	require.Equal(t, 1, hub.Deliver(sent))

	var event, data string
	for data == "" {
		line, err := rd.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	assert.Equal(t, EventBroadcastMessage, event)
	var got entity.BroadcastMessage
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "root@x.com", got.Sender)

	cancel()
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
