package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember-app/ember-go/internal/creds"
)

// fakeEventService is a websocket server standing in for the backend event
// service. It records every frame the client emits and can sever live
// connections to force a reconnect.
type fakeEventService struct {
	t        *testing.T
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    []*websocket.Conn
	upgrades int
	received []Envelope
}

func newFakeEventService(t *testing.T) *fakeEventService {
	t.Helper()

	svc := &fakeEventService{t: t}
	svc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := svc.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		svc.mu.Lock()
		svc.conns = append(svc.conns, conn)
		svc.upgrades++
		svc.mu.Unlock()

		go func() {
			for {
				var env Envelope
				if err := conn.ReadJSON(&env); err != nil {
					return
				}
				svc.mu.Lock()
				svc.received = append(svc.received, env)
				svc.mu.Unlock()
			}
		}()
	}))
	t.Cleanup(svc.server.Close)

	return svc
}

func (s *fakeEventService) wsURL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *fakeEventService) upgradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upgrades
}

func (s *fakeEventService) envelopes() []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Envelope, len(s.received))
	copy(out, s.received)
	return out
}

// severAll closes every live server-side connection.
func (s *fakeEventService) severAll() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// push sends an event to every live connection.
func (s *fakeEventService) push(env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		_ = conn.WriteJSON(env)
	}
}

func (s *fakeEventService) countJoins(roomID string) int {
	count := 0
	for _, env := range s.envelopes() {
		if env.Type == EmitJoinRoom && env.RoomID == roomID {
			count++
		}
	}
	return count
}

func newTestClient(t *testing.T, svc *fakeEventService) *Client {
	t.Helper()

	manager := creds.NewManager(creds.NewMemStore())
	require.NoError(t, manager.SaveTokens(context.Background(), creds.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
	}))

	cfg := DefaultConfig(svc.wsURL())
	cfg.ReconnectWait = 10 * time.Millisecond
	cfg.MaxReconnectWait = 50 * time.Millisecond

	client := NewClient(cfg, manager, clockwork.NewRealClock())
	t.Cleanup(client.Disconnect)
	return client
}

func TestConnectWithoutCredentialsIsSilentNoop(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	manager := creds.NewManager(creds.NewMemStore())
	client := NewClient(DefaultConfig(svc.wsURL()), manager, clockwork.NewRealClock())

	require.NoError(t, client.Connect(context.Background()))

	assert.False(t, client.Connected())
	assert.Equal(t, 0, svc.upgradeCount())
}

func TestConnectWhileInFlightIsNoop(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)
	ctx := context.Background()

	require.NoError(t, client.Connect(ctx))
	require.NoError(t, client.Connect(ctx))
	require.NoError(t, client.Connect(ctx))

	require.Eventually(t, client.Connected, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, svc.upgradeCount(), "one transport per process")
}

func TestJoinEmittedWhenConnected(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, client.Connected, time.Second, 5*time.Millisecond)

	client.JoinRoom("room-1")

	require.Eventually(t, func() bool {
		return svc.countJoins("room-1") == 1
	}, time.Second, 5*time.Millisecond)
}

func TestReconnectReassertsRoomExactlyOnce(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, client.Connected, time.Second, 5*time.Millisecond)

	client.JoinRoom("room-7")
	require.Eventually(t, func() bool {
		return svc.countJoins("room-7") == 1
	}, time.Second, 5*time.Millisecond)

	svc.severAll()

	require.Eventually(t, func() bool {
		return svc.upgradeCount() == 2
	}, 2*time.Second, 5*time.Millisecond, "client must redial on its own")

	require.Eventually(t, func() bool {
		return svc.countJoins("room-7") == 2
	}, time.Second, 5*time.Millisecond, "join re-emitted after reconnect")

	// Give the client a beat, then confirm exactly one rejoin happened.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, svc.countJoins("room-7"))
}

func TestJoinWhileDisconnectedFlushedOnConnect(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)

	// Queued before any transport exists.
	client.JoinRoom("room-3")
	assert.Equal(t, 1, client.outbox.len())

	require.NoError(t, client.Connect(context.Background()))

	require.Eventually(t, func() bool {
		return svc.countJoins("room-3") == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, svc.countJoins("room-3"), "queued join flushed exactly once")
	assert.Equal(t, 0, client.outbox.len())
}

func TestDisconnectKeepsRememberedRoom(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, client.Connected, time.Second, 5*time.Millisecond)
	client.JoinRoom("room-9")
	require.Eventually(t, func() bool {
		return svc.countJoins("room-9") == 1
	}, time.Second, 5*time.Millisecond)

	client.Disconnect()
	assert.False(t, client.Connected())

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, func() bool {
		return svc.countJoins("room-9") == 2
	}, time.Second, 5*time.Millisecond, "remembered room rejoined on fresh connect")
}

func TestLeaveRoomForgetsMembership(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, client.Connected, time.Second, 5*time.Millisecond)

	client.JoinRoom("room-4")
	require.Eventually(t, func() bool {
		return svc.countJoins("room-4") == 1
	}, time.Second, 5*time.Millisecond)
	client.LeaveRoom("room-4")

	svc.severAll()
	require.Eventually(t, func() bool {
		return svc.upgradeCount() == 2
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, svc.countJoins("room-4"), "no rejoin after leaving")
}

func TestInboundEventsFanOutToAllSubscribers(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)

	var mu sync.Mutex
	var order []string

	client.On(EventNewMessage, func(env Envelope) {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
	})
	off := client.On(EventNewMessage, func(env Envelope) {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
	})

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, client.Connected, time.Second, 5*time.Millisecond)

	svc.push(Envelope{Type: EventNewMessage, RoomID: "room-1", Data: []byte(`{"text":"hi"}`)})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"first", "second"}, order, "registration order preserved")
	mu.Unlock()

	// After unsubscribing, only the first handler fires.
	off()
	svc.push(Envelope{Type: EventNewMessage, RoomID: "room-1", Data: []byte(`{"text":"again"}`)})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "first", order[2])
	mu.Unlock()
}

func TestTypingDroppedWhileDisconnected(t *testing.T) {
	t.Parallel()

	svc := newFakeEventService(t)
	client := newTestClient(t, svc)

	client.Typing("room-1", true)
	assert.Equal(t, 0, client.outbox.len(), "typing is ephemeral, never queued")
}
