package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/ember-app/ember-go/internal/creds"
)

// Config holds realtime transport settings.
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	PongTimeout      time.Duration
	PingInterval     time.Duration
	ReconnectWait    time.Duration
	MaxReconnectWait time.Duration
	OutboxCapacity   int
}

// DefaultConfig returns default transport settings. Reconnection attempts
// are unlimited; the wait between attempts doubles up to MaxReconnectWait.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		PongTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		ReconnectWait:    2 * time.Second,
		MaxReconnectWait: 30 * time.Second,
		OutboxCapacity:   64,
	}
}

// Client owns the single realtime connection to the backend event service.
// Connect authenticates the transport with the stored bearer credential and
// starts a supervisor that redials forever on failure; connection errors are
// logged, never surfaced. The client tracks one active room at a time and
// re-asserts membership after every reconnect.
type Client struct {
	config Config
	creds  *creds.Manager
	clock  clockwork.Clock
	dialer *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	running   bool
	room      string
	stopCh    chan struct{}
	wg        sync.WaitGroup

	writeMu sync.Mutex

	handlers *dispatcher
	outbox   *outbox
}

func NewClient(config Config, manager *creds.Manager, clock clockwork.Clock) *Client {
	return &Client{
		config: config,
		creds:  manager,
		clock:  clock,
		dialer: &websocket.Dialer{
			HandshakeTimeout: config.HandshakeTimeout,
		},
		handlers: newDispatcher(),
		outbox:   newOutbox(config.OutboxCapacity, clock),
	}
}

// Connect starts the transport supervisor. Calls while a connection attempt
// is in flight or a connection is live are no-ops. Without a stored
// credential the call is a silent no-op: screens may call Connect
// unconditionally and only authenticated sessions get a transport.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	if _, err := c.creds.Tokens(ctx); err != nil {
		if errors.Is(err, creds.ErrNoCredentials) {
			log.Debug().Msg("realtime connect skipped, no stored credentials")
			return nil
		}
		return err
	}

	c.running = true
	c.stopCh = make(chan struct{})
	c.wg.Add(1)
	go c.supervise(ctx, c.stopCh)

	return nil
}

// Disconnect tears down the transport and stops the supervisor. The
// remembered room id survives so a later Connect rejoins it.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopCh)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
}

// Connected reports whether the transport is currently live.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// On registers a handler for an event type and returns its unsubscribe func.
// Multiple independent handlers may subscribe to the same event; they run
// synchronously in registration order.
func (c *Client) On(eventType EventType, fn func(Envelope)) func() {
	return c.handlers.on(eventType, fn)
}

// JoinRoom records roomID as the active room and emits a join when
// connected. When disconnected the join is queued in the outbox and flushed
// on the next connect.
func (c *Client) JoinRoom(roomID string) {
	c.mu.Lock()
	c.room = roomID
	connected := c.connected
	c.mu.Unlock()

	env := Envelope{Type: EmitJoinRoom, RoomID: roomID, Timestamp: c.clock.Now()}
	if connected {
		c.writeEnvelope(env)
		return
	}
	c.outbox.enqueueJoin(env)
	log.Debug().Str("room_id", roomID).Msg("join queued until reconnect")
}

// LeaveRoom clears the remembered room when it matches and emits a leave
// when connected. While disconnected the server already dropped the
// membership with the transport, so only local bookkeeping happens.
func (c *Client) LeaveRoom(roomID string) {
	c.mu.Lock()
	if c.room == roomID {
		c.room = ""
	}
	connected := c.connected
	c.mu.Unlock()

	c.outbox.removeJoin(roomID)
	if connected {
		c.writeEnvelope(Envelope{Type: EmitLeaveRoom, RoomID: roomID, Timestamp: c.clock.Now()})
	}
}

// Typing emits a typing indicator. It is ephemeral: while disconnected it is
// dropped, an accepted at-most-once signal.
func (c *Client) Typing(roomID string, isTyping bool) {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		log.Debug().Str("room_id", roomID).Msg("typing indicator dropped while disconnected")
		return
	}

	data, err := json.Marshal(TypingPayload{ChatID: roomID, IsTyping: isTyping})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal typing payload")
		return
	}
	c.writeEnvelope(Envelope{Type: EmitTyping, RoomID: roomID, Data: data, Timestamp: c.clock.Now()})
}

// supervise dials, pumps and redials until Disconnect. Reconnection is
// unlimited with bounded exponential backoff; dial errors are logged only.
func (c *Client) supervise(ctx context.Context, stopCh chan struct{}) {
	defer c.wg.Done()

	wait := c.config.ReconnectWait
	for {
		// Re-read the credential each attempt so a token rotated by the
		// REST client's refresh path is used on reconnect.
		pair, err := c.creds.Tokens(ctx)
		if err != nil {
			log.Error().Err(err).Msg("realtime dial skipped, credentials unavailable")
			select {
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			case <-c.clock.After(wait):
			}
			if wait *= 2; wait > c.config.MaxReconnectWait {
				wait = c.config.MaxReconnectWait
			}
			continue
		}

		header := http.Header{}
		header.Set("Authorization", "Bearer "+pair.AccessToken)

		conn, resp, err := c.dialer.DialContext(ctx, c.config.URL, header)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			log.Error().Err(err).Str("url", c.config.URL).Msg("realtime dial failed")
			c.handlers.dispatch(Envelope{Type: EventConnectError, Timestamp: c.clock.Now()})

			select {
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			case <-c.clock.After(wait):
			}
			if wait *= 2; wait > c.config.MaxReconnectWait {
				wait = c.config.MaxReconnectWait
			}
			continue
		}
		wait = c.config.ReconnectWait

		c.mu.Lock()
		if !c.running {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.connected = true
		c.mu.Unlock()

		log.Info().Str("url", c.config.URL).Msg("realtime connected")
		c.handlers.dispatch(Envelope{Type: EventConnected, Timestamp: c.clock.Now()})

		c.rejoinAndFlush()

		pingDone := make(chan struct{})
		go c.pingLoop(conn, pingDone)

		c.readLoop(conn)
		close(pingDone)

		c.mu.Lock()
		c.connected = false
		c.conn = nil
		stopped := !c.running
		c.mu.Unlock()

		c.handlers.dispatch(Envelope{Type: EventDisconnected, Timestamp: c.clock.Now()})
		if stopped {
			return
		}

		log.Warn().Msg("realtime connection lost, reconnecting")
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-c.clock.After(wait):
		}
	}
}

// rejoinAndFlush re-asserts room membership and flushes queued emissions
// after a (re)connect. Exactly one join is emitted per reconnect: either the
// queued one or, when nothing is queued, a synthesized rejoin of the
// remembered room.
func (c *Client) rejoinAndFlush() {
	c.mu.Lock()
	room := c.room
	c.mu.Unlock()

	joined := false
	for _, entry := range c.outbox.drain() {
		if entry.Env.Type == EmitJoinRoom {
			if entry.Env.RoomID != room {
				// Room changed after the join was queued; the remembered
				// room is authoritative.
				continue
			}
			joined = true
		}
		c.writeEnvelope(entry.Env)
	}

	if !joined && room != "" {
		c.writeEnvelope(Envelope{Type: EmitJoinRoom, RoomID: room, Timestamp: c.clock.Now()})
		log.Debug().Str("room_id", room).Msg("rejoined room after reconnect")
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(c.config.PongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.config.PongTimeout))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("unexpected realtime close")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(c.config.PongTimeout))

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			log.Warn().Err(err).Msg("discarding malformed realtime frame")
			continue
		}
		c.handlers.dispatch(env)
	}
}

func (c *Client) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := c.clock.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				log.Error().Err(err).Msg("failed to send ping")
				return
			}
		}
	}
}

// writeEnvelope sends one frame on the live connection. Failures are logged
// only; the read loop notices a dead transport and triggers the redial.
func (c *Client) writeEnvelope(env Envelope) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := conn.WriteJSON(env); err != nil {
		log.Error().Err(err).Str("event_type", string(env.Type)).Msg("failed to write realtime frame")
	}
}
