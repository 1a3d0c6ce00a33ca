package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pverberg/frontdesk/internal/domain"
	"github.com/pverberg/frontdesk/internal/log"
)

func TestBackoffDelayDoublesUpToCap(t *testing.T) {
	l := NewListener("ws://unused", Callbacks{}, log.NullLogger(),
		WithBackoff(time.Second, 30*time.Second, 8))

	assert.Equal(t, 1*time.Second, l.backoffDelay(1))
	assert.Equal(t, 2*time.Second, l.backoffDelay(2))
	assert.Equal(t, 4*time.Second, l.backoffDelay(3))
	assert.Equal(t, 8*time.Second, l.backoffDelay(4))
	assert.Equal(t, 16*time.Second, l.backoffDelay(5))
	assert.Equal(t, 30*time.Second, l.backoffDelay(6))
	assert.Equal(t, 30*time.Second, l.backoffDelay(7))
}

// wsServer upgrades one connection and hands it to fn.
func wsServer(t *testing.T, fn func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		fn(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestListenerDeliversNotificationFrames(t *testing.T) {
	frames := []string{
		`{"type":"new_notification","notification":{"id":7,"type":"new_booking","title":"New booking","message":"BK-1 created","is_read":false}}`,
		`{"type":"unread_count","count":5}`,
		`this is not json`,
		`{"type":"unknown_event","payload":"x"}`,
		`{"type":"unread_count","count":6}`,
	}
	server := wsServer(t, func(conn *websocket.Conn) {
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	var notifications atomic.Int32
	var gotTitle atomic.Value
	var lastCount atomic.Int32
	var refreshes atomic.Int32

	l := NewListener(wsURL(server), Callbacks{
		OnNotification: func(n domain.Notification) {
			notifications.Add(1)
			gotTitle.Store(n.Title)
		},
		OnUnreadCount:      func(c int) { lastCount.Store(int32(c)) },
		OnAggregateRefresh: func() { refreshes.Add(1) },
	}, log.NullLogger(), WithBackoff(10*time.Millisecond, 50*time.Millisecond, 3))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	// Malformed and unknown frames are skipped without killing the stream.
	require.Eventually(t, func() bool {
		return lastCount.Load() == 6
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), notifications.Load())
	assert.Equal(t, "New booking", gotTitle.Load())
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestListenerAnswersApplicationPing(t *testing.T) {
	gotPong := make(chan frame, 1)
	server := wsServer(t, func(conn *websocket.Conn) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var f frame
		if json.Unmarshal(data, &f) == nil {
			gotPong <- f
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	l := NewListener(wsURL(server), Callbacks{}, log.NullLogger(),
		WithBackoff(10*time.Millisecond, 50*time.Millisecond, 3))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case f := <-gotPong:
		assert.Equal(t, framePong, f.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no pong received")
	}
}

func TestListenerGivesUpAfterMaxAttempts(t *testing.T) {
	// Nothing listens here; every dial fails.
	l := NewListener("ws://127.0.0.1:1/ws/admin", Callbacks{}, log.NullLogger(),
		WithBackoff(time.Millisecond, 5*time.Millisecond, 3))

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not give up")
	}
}

func TestListenerStopsOnContextCancel(t *testing.T) {
	connected := make(chan struct{})
	server := wsServer(t, func(conn *websocket.Conn) {
		close(connected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	l := NewListener(wsURL(server), Callbacks{}, log.NullLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	<-connected
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on cancel")
	}
}

func TestAggregateRefreshRateLimited(t *testing.T) {
	var refreshes atomic.Int32
	l := NewListener("ws://unused", Callbacks{
		OnAggregateRefresh: func() { refreshes.Add(1) },
	}, log.NullLogger())

	for i := 0; i < 10; i++ {
		l.requestAggregateRefresh()
	}
	assert.Equal(t, int32(1), refreshes.Load(), "a burst collapses into one refresh")
}
