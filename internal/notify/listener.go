// Package notify maintains the admin push channel: a WebSocket connection
// that folds server-side change events into the local stores. Loss of the
// channel degrades the client to manual refresh; it never blocks anything.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/pverberg/frontdesk/internal/domain"
)

// Frame types emitted by the backend's /ws/admin endpoint.
const (
	frameNewNotification = "new_notification"
	frameUnreadCount     = "unread_count"
	framePing            = "ping"
	framePong            = "pong"
)

// frame is the wire shape of one push message. Fields are populated
// depending on Type; unknown types are ignored.
type frame struct {
	Type         string               `json:"type"`
	Notification *domain.Notification `json:"notification,omitempty"`
	Count        *int                 `json:"count,omitempty"`
}

// Callbacks receive decoded push events. Nil callbacks are skipped. They are
// invoked from the listener goroutine and must not block.
type Callbacks struct {
	// OnNotification fires for every new notification pushed by the server.
	OnNotification func(domain.Notification)

	// OnUnreadCount fires when the server reports the unread badge count.
	OnUnreadCount func(int)

	// OnAggregateRefresh asks the owner to re-fetch summary statistics.
	// Calls are rate limited so an event storm refreshes at most a few
	// times per storm.
	OnAggregateRefresh func()
}

const (
	defaultBaseDelay    = 1 * time.Second
	defaultMaxDelay     = 30 * time.Second
	defaultMaxAttempts  = 8
	defaultPingInterval = 30 * time.Second
	readLimit           = 1 << 20
)

// Listener keeps the push channel alive with bounded exponential-backoff
// reconnects. After exhausting its attempts it gives up silently; the rest
// of the client keeps working without live updates.
type Listener struct {
	url       string
	callbacks Callbacks
	logger    *slog.Logger

	dialer       *websocket.Dialer
	limiter      *rate.Limiter
	baseDelay    time.Duration
	maxDelay     time.Duration
	maxAttempts  int
	pingInterval time.Duration
}

// Option tweaks listener behavior.
type Option func(*Listener)

// WithBackoff overrides the reconnect schedule.
func WithBackoff(base, max time.Duration, maxAttempts int) Option {
	return func(l *Listener) {
		l.baseDelay = base
		l.maxDelay = max
		l.maxAttempts = maxAttempts
	}
}

// NewListener creates a listener for the given ws:// or wss:// URL.
func NewListener(url string, callbacks Callbacks, logger *slog.Logger, opts ...Option) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Listener{
		url:       url,
		callbacks: callbacks,
		logger:    logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		// Aggregate refreshes during an event storm: one immediately,
		// then at most one every two seconds.
		limiter:      rate.NewLimiter(rate.Every(2*time.Second), 1),
		baseDelay:    defaultBaseDelay,
		maxDelay:     defaultMaxDelay,
		maxAttempts:  defaultMaxAttempts,
		pingInterval: defaultPingInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run connects and processes events until ctx is cancelled or the reconnect
// budget is exhausted. It blocks; run it on its own goroutine.
func (l *Listener) Run(ctx context.Context) {
	attempts := 0
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err != nil {
			attempts++
			if attempts >= l.maxAttempts {
				l.logger.Warn("push channel gave up", "attempts", attempts)
				return
			}
			delay := l.backoffDelay(attempts)
			l.logger.Debug("push channel reconnect", "attempt", attempts, "delay", delay, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}

		attempts = 0
		l.logger.Info("push channel connected", "url", l.url)
		l.readLoop(ctx, conn)
		conn.Close()
		attempts++
	}
}

// backoffDelay returns the wait before reconnect attempt n (1-based),
// doubling from the base delay up to the cap.
func (l *Listener) backoffDelay(attempt int) time.Duration {
	delay := l.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= l.maxDelay {
			return l.maxDelay
		}
	}
	if delay > l.maxDelay {
		return l.maxDelay
	}
	return delay
}

// readLoop pumps frames until the connection drops or ctx is cancelled.
// Malformed frames are logged and skipped, never fatal.
func (l *Listener) readLoop(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(readLimit)

	done := make(chan struct{})
	defer close(done)

	// Keepalive pings; WriteControl is safe alongside the read loop.
	go func() {
		ticker := time.NewTicker(l.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Close() // unblock ReadMessage
				return
			case <-ticker.C:
				deadline := time.Now().Add(5 * time.Second)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Debug("push channel read failed", "error", err)
			}
			return
		}
		l.handleFrame(conn, data)
	}
}

func (l *Listener) handleFrame(conn *websocket.Conn, data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		l.logger.Warn("malformed push frame", "error", err)
		return
	}

	switch f.Type {
	case frameNewNotification:
		if f.Notification == nil {
			l.logger.Warn("new_notification frame without payload")
			return
		}
		if l.callbacks.OnNotification != nil {
			l.callbacks.OnNotification(*f.Notification)
		}
		l.requestAggregateRefresh()
	case frameUnreadCount:
		if f.Count == nil {
			l.logger.Warn("unread_count frame without count")
			return
		}
		if l.callbacks.OnUnreadCount != nil {
			l.callbacks.OnUnreadCount(*f.Count)
		}
	case framePing:
		// Data writes happen only here; the keepalive goroutine sticks to
		// control frames, which gorilla allows concurrently.
		msg, _ := json.Marshal(frame{Type: framePong})
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			l.logger.Debug("pong write failed", "error", err)
		}
	case framePong:
		// Keepalive answer, nothing to do.
	default:
		l.logger.Debug("ignoring push frame", "type", f.Type)
	}
}

func (l *Listener) requestAggregateRefresh() {
	if l.callbacks.OnAggregateRefresh == nil {
		return
	}
	if l.limiter.Allow() {
		l.callbacks.OnAggregateRefresh()
	}
}
