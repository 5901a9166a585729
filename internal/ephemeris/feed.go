package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"ziwei-lab/internal/domain"
)

// FeedConfig configures the almanac feed client.
type FeedConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the reconnect backoff.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultFeedConfig returns the default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       120 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Feed streams almanac day records from the ephemeris provider over
// WebSocket, reconnecting and resubscribing on connection loss.
type Feed struct {
	endpoint string
	config   FeedConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	out    chan domain.AlmanacDay
	outMu  sync.Mutex
	active bool

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool

	// Reconnects counts connection re-establishments, for the status page.
	Reconnects atomic.Int64
}

// Compile-time interface check.
var _ AlmanacSource = (*Feed)(nil)

// NewFeed creates an almanac feed client and connects to the endpoint.
func NewFeed(ctx context.Context, endpoint string, config *FeedConfig) (*Feed, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}

	f := &Feed{
		endpoint: endpoint,
		config:   cfg,
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(2)
	go f.readLoop()
	go f.pingLoop()

	return f, nil
}

// connect establishes the WebSocket connection and sends the
// subscription request.
func (f *Feed) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
	sub := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "almanacSubscribe",
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("write subscribe: %w", err)
	}

	f.conn = conn
	return nil
}

// Subscribe returns the almanac day channel. The feed supports a single
// subscriber; the channel closes when the feed is closed.
func (f *Feed) Subscribe(_ context.Context) (<-chan domain.AlmanacDay, error) {
	if f.closed.Load() {
		return nil, fmt.Errorf("feed closed")
	}

	f.outMu.Lock()
	defer f.outMu.Unlock()
	if f.active {
		return nil, fmt.Errorf("feed already subscribed")
	}
	f.out = make(chan domain.AlmanacDay, 64)
	f.active = true
	return f.out, nil
}

// Close shuts the feed down and closes the subscriber channel.
func (f *Feed) Close() error {
	if f.closed.Swap(true) {
		return nil
	}

	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		f.conn.Close()
	}
	f.connMu.Unlock()

	f.wg.Wait()

	f.outMu.Lock()
	if f.out != nil {
		close(f.out)
		f.out = nil
	}
	f.outMu.Unlock()
	return nil
}

// feedMessage is the wire form of a provider push.
type feedMessage struct {
	Method string `json:"method"`
	Params struct {
		Date        string   `json:"date"`
		LunarDate   string   `json:"lunarDate"`
		YearPillar  string   `json:"yearPillar"`
		MonthPillar string   `json:"monthPillar"`
		DayPillar   string   `json:"dayPillar"`
		SolarTerm   *string  `json:"solarTerm"`
		Lucky       bool     `json:"lucky"`
		Suitable    []string `json:"suitable"`
		Avoid       []string `json:"avoid"`
	} `json:"params"`
}

// readLoop reads provider pushes and forwards them to the subscriber.
func (f *Feed) readLoop() {
	defer f.wg.Done()

	reconnectDelay := f.config.ReconnectDelay

	for !f.closed.Load() {
		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			select {
			case <-f.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}

			if !f.reconnecting.Swap(true) {
				go f.reconnect(reconnectDelay)
			}

			reconnectDelay *= 2
			if reconnectDelay > f.config.MaxReconnectDelay {
				reconnectDelay = f.config.MaxReconnectDelay
			}

			select {
			case <-f.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = f.config.ReconnectDelay
		f.handleMessage(message)
	}
}

// handleMessage parses one push and delivers it.
func (f *Feed) handleMessage(message []byte) {
	var msg feedMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}
	if msg.Method != "almanacNotification" {
		return // subscription confirmations and pongs
	}

	day := domain.AlmanacDay{
		Date:        msg.Params.Date,
		LunarDate:   msg.Params.LunarDate,
		YearPillar:  domain.ParsePillar(msg.Params.YearPillar),
		MonthPillar: domain.ParsePillar(msg.Params.MonthPillar),
		DayPillar:   domain.ParsePillar(msg.Params.DayPillar),
		SolarTerm:   msg.Params.SolarTerm,
		Lucky:       msg.Params.Lucky,
		Suitable:    msg.Params.Suitable,
		Avoid:       msg.Params.Avoid,
		FetchedAt:   time.Now().UnixMilli(),
	}

	f.outMu.Lock()
	out := f.out
	f.outMu.Unlock()
	if out == nil {
		return
	}

	select {
	case out <- day:
	case <-f.done:
	}
}

// reconnect re-establishes the connection and resubscribes.
func (f *Feed) reconnect(delay time.Duration) {
	defer f.reconnecting.Store(false)

	if f.closed.Load() {
		return
	}

	select {
	case <-f.done:
		return
	case <-time.After(delay):
	}

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := f.connect(ctx); err != nil {
		return // retried on the next read error
	}
	f.Reconnects.Add(1)
}

// pingLoop keeps the connection alive.
func (f *Feed) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			if f.conn != nil {
				f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
				f.conn.WriteMessage(websocket.PingMessage, nil)
			}
			f.connMu.Unlock()
		}
	}
}
