package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-matchserver/internal/entity"
	"golang.org/x/time/rate"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionClosed   = errors.New("connection is closed")
	ErrSendBufferFull     = errors.New("send buffer is full")
)

const (
	defaultMaxConnections = 1000
	defaultReadLimit      = 4096
	defaultSendBuffer     = 256
)

// receiver gets every transport event, in order per connection.
type receiver interface {
	Connected(ctx context.Context, id entity.ConnID)
	Received(ctx context.Context, id entity.ConnID, payload string)
	Disconnected(ctx context.Context, id entity.ConnID)
}

type Options struct {
	MaxConnections    int
	ReadLimit         int64
	SendBuffer        int
	MessagesPerSecond float64
	Burst             int
}

// Server upgrades HTTP requests to websocket connections and gives each one an integer id.
type Server struct {
	logger   *slog.Logger
	opts     Options
	upgrader websocket.Upgrader

	ctx      context.Context
	receiver receiver

	nextID  atomic.Int64
	mu      sync.RWMutex
	clients map[entity.ConnID]*client
}

func New(logger *slog.Logger, opts Options) *Server {
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = defaultMaxConnections
	}

	if opts.ReadLimit <= 0 {
		opts.ReadLimit = defaultReadLimit
	}

	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}

	return &Server{
		logger: logger.With("component", "websocket"),
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctx:     context.Background(),
		clients: make(map[entity.ConnID]*client),
	}
}

// Register mounts GET /ws. Events are delivered to rcv until ctx is canceled.
func (that *Server) Register(ctx context.Context, router gin.IRoutes, rcv receiver) {
	that.ctx = ctx
	that.receiver = rcv

	router.GET("/ws", that.handleUpgrade)
}

func (that *Server) handleUpgrade(c *gin.Context) {
	log := that.logger.With("method", "handleUpgrade")

	if that.Len() >= that.opts.MaxConnections {
		log.Warn("connection limit reached", "limit", that.opts.MaxConnections)
		c.String(http.StatusServiceUnavailable, "too many connections")

		return
	}

	conn, err := that.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already answered with an error status
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	cl := newClient(entity.ConnID(that.nextID.Add(1)), conn, that.opts)

	that.mu.Lock()
	that.clients[cl.id] = cl
	that.mu.Unlock()

	log.Info("connection established", "connID", cl.id, "remote", c.Request.RemoteAddr)

	that.receiver.Connected(that.ctx, cl.id)

	go cl.writePump(that.logger)
	go that.readPump(cl)
}

func (that *Server) readPump(cl *client) {
	log := that.logger.With("method", "readPump", "connID", cl.id)

	defer func() {
		that.remove(cl.id)
		cl.close()
		that.receiver.Disconnected(that.ctx, cl.id)
		log.Info("connection closed")
	}()

	cl.conn.SetReadLimit(that.opts.ReadLimit)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected close", "error", err)
			}

			return
		}

		if !cl.limiter.Allow() {
			log.Debug("message dropped by rate limit")
			continue
		}

		that.receiver.Received(that.ctx, cl.id, string(payload))
	}
}

// Send queues msg for the connection without blocking.
func (that *Server) Send(id entity.ConnID, msg string) error {
	that.mu.RLock()
	cl, ok := that.clients[id]
	that.mu.RUnlock()

	if !ok {
		return ErrConnectionNotFound
	}

	return cl.enqueue([]byte(msg))
}

func (that *Server) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

// Close drops every open connection. Their read pumps report the disconnects.
func (that *Server) Close() {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, cl := range that.clients {
		cl.close()
	}
}

func (that *Server) remove(id entity.ConnID) {
	that.mu.Lock()
	delete(that.clients, id)
	that.mu.Unlock()
}

func limiterFor(opts Options) *rate.Limiter {
	if opts.MessagesPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(opts.MessagesPerSecond), burst)
}
