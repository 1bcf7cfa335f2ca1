package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type recordedEvent struct {
	kind    string
	id      entity.ConnID
	payload string
}

type recordingReceiver struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (that *recordingReceiver) record(event recordedEvent) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *recordingReceiver) Connected(_ context.Context, id entity.ConnID) {
	that.record(recordedEvent{kind: "connected", id: id})
}

func (that *recordingReceiver) Received(_ context.Context, id entity.ConnID, payload string) {
	that.record(recordedEvent{kind: "received", id: id, payload: payload})
}

func (that *recordingReceiver) Disconnected(_ context.Context, id entity.ConnID) {
	that.record(recordedEvent{kind: "disconnected", id: id})
}

func (that *recordingReceiver) Events() []recordedEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]recordedEvent(nil), that.events...)
}

func newTestServer(t *testing.T, opts Options) (*Server, *recordingReceiver, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), opts)
	rcv := &recordingReceiver{}

	router := gin.New()
	server.Register(context.Background(), router, rcv)

	httpServer := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		httpServer.Close()
	})

	return server, rcv, "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestServer_Exchange(t *testing.T) {
	server, rcv, url := newTestServer(t, Options{})

	// Given: a connected client
	conn := dial(t, url)
	require.Eventually(t, func() bool { return server.Len() == 1 }, waitFor, 10*time.Millisecond)

	// When: it sends a message
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("2,al,pw")))

	// Then: the receiver sees the connect before the message
	require.Eventually(t, func() bool { return len(rcv.Events()) == 2 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, []recordedEvent{
		{kind: "connected", id: 1},
		{kind: "received", id: 1, payload: "2,al,pw"},
	}, rcv.Events())

	// When: the server sends to the connection id
	require.NoError(t, server.Send(1, "1,Successful Login"))

	// Then: the client reads it as a text frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	kind, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.Equal(t, "1,Successful Login", string(payload))

	// When: the client goes away
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	// Then: the disconnect is reported and the id is gone
	require.Eventually(t, func() bool { return len(rcv.Events()) == 3 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, recordedEvent{kind: "disconnected", id: 1}, rcv.Events()[2])
	require.ErrorIs(t, server.Send(1, "x"), ErrConnectionNotFound)
}

func TestServer_ConnectionIDs(t *testing.T) {
	server, rcv, url := newTestServer(t, Options{})

	dial(t, url)
	dial(t, url)

	require.Eventually(t, func() bool { return server.Len() == 2 }, waitFor, 10*time.Millisecond)
	require.Eventually(t, func() bool { return len(rcv.Events()) == 2 }, waitFor, 10*time.Millisecond)

	ids := []entity.ConnID{rcv.Events()[0].id, rcv.Events()[1].id}
	assert.ElementsMatch(t, []entity.ConnID{1, 2}, ids)
}

func TestServer_MaxConnections(t *testing.T) {
	server, _, url := newTestServer(t, Options{MaxConnections: 1})

	dial(t, url)
	require.Eventually(t, func() bool { return server.Len() == 1 }, waitFor, 10*time.Millisecond)

	// When: a second client tries to connect
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	// Then: the upgrade is refused
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_RateLimit(t *testing.T) {
	_, rcv, url := newTestServer(t, Options{MessagesPerSecond: 0.001, Burst: 1})

	conn := dial(t, url)

	// When: a burst larger than allowed arrives
	for _, payload := range []string{"3", "3", "3"} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	}

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	// Then: only the first message gets through
	require.Eventually(t, func() bool {
		events := rcv.Events()
		return len(events) > 0 && events[len(events)-1].kind == "disconnected"
	}, waitFor, 10*time.Millisecond)

	received := 0
	for _, event := range rcv.Events() {
		if event.kind == "received" {
			received++
		}
	}

	assert.Equal(t, 1, received)
}

func TestServer_SendBufferFull(t *testing.T) {
	server, _, url := newTestServer(t, Options{SendBuffer: 1})

	dial(t, url)
	require.Eventually(t, func() bool { return server.Len() == 1 }, waitFor, 10*time.Millisecond)

	// the client never reads, so the socket and then the buffer fill up
	msg := strings.Repeat("x", 64*1024)

	var err error
	for i := 0; i < 10000 && err == nil; i++ {
		err = server.Send(1, msg)
	}

	require.ErrorIs(t, err, ErrSendBufferFull)
}

func TestServer_SendUnknown(t *testing.T) {
	server, _, _ := newTestServer(t, Options{})

	require.ErrorIs(t, server.Send(42, "8,hi"), ErrConnectionNotFound)
}
