// Package netsync streams environment state to remote viewers over WebSocket.
package netsync

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/vivarium/sim"
)

const writeTimeout = 5 * time.Second

// FrameObject is one object as seen by a viewer.
type FrameObject struct {
	ID      string     `json:"id"`
	Class   string     `json:"class"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Heading float64    `json:"heading"`
	Size    float64    `json:"size"`
	RGB     [3]float64 `json:"rgb"`
}

// Frame is the per-tick message sent to every client.
type Frame struct {
	Tick    uint64        `json:"tick"`
	Objects []FrameObject `json:"objects"`
}

// NewFrame captures the drawable state of env.
func NewFrame(env *sim.Environment) Frame {
	objects := env.Objects()
	f := Frame{Tick: env.Tick(), Objects: make([]FrameObject, 0, len(objects))}
	for _, o := range objects {
		c := o.Core()
		r, g, b := c.Color.RGB()
		f.Objects = append(f.Objects, FrameObject{
			ID:      c.ID.String(),
			Class:   o.Class().String(),
			X:       c.Location.X,
			Y:       c.Location.Y,
			Heading: c.Vector.Heading(),
			Size:    c.Size(),
			RGB:     [3]float64{r, g, b},
		})
	}
	return f
}

// Broadcaster is an environment observer that fans frames out to connected
// WebSocket clients. Frames are queued without blocking the simulation; when
// the queue is full the frame is dropped.
type Broadcaster struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool

	frames     chan Frame
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewBroadcaster creates a broadcaster and starts its send loop.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Broadcaster{
		logger:     logger,
		clients:    make(map[*websocket.Conn]bool),
		frames:     make(chan Frame, 8),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	b.wg.Add(1)
	go b.run()

	return b
}

// EnvironmentChanged implements sim.Observer.
func (b *Broadcaster) EnvironmentChanged(env *sim.Environment) {
	if b.Clients() == 0 {
		return
	}
	select {
	case b.frames <- NewFrame(env):
	case <-b.done:
	default:
		b.dropped.Add(1)
	}
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects. Incoming messages are discarded.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	select {
	case b.register <- conn:
	case <-b.done:
		conn.Close()
		return
	}
	b.logger.Info("viewer connected", "remote", r.RemoteAddr)

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	select {
	case b.unregister <- conn:
	case <-b.done:
	}
	b.logger.Info("viewer disconnected", "remote", r.RemoteAddr)
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Stats returns the number of frames sent and dropped so far.
func (b *Broadcaster) Stats() (sent, dropped uint64) {
	return b.sent.Load(), b.dropped.Load()
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			b.remove(conn)

		case frame := <-b.frames:
			data, err := json.Marshal(frame)
			if err != nil {
				b.logger.Error("encoding frame", "tick", frame.Tick, "err", err)
				continue
			}

			b.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(b.clients))
			for conn := range b.clients {
				conns = append(conns, conn)
			}
			b.mu.RUnlock()

			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					b.logger.Debug("dropping viewer", "err", err)
					b.remove(conn)
				}
			}
			b.sent.Add(1)
		}
	}
}

func (b *Broadcaster) remove(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[conn]; ok {
		delete(b.clients, conn)
		conn.Close()
	}
}

// Close disconnects every client and stops the send loop.
func (b *Broadcaster) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		b.wg.Wait()

		b.mu.Lock()
		for conn := range b.clients {
			conn.Close()
			delete(b.clients, conn)
		}
		b.mu.Unlock()
	})
	return nil
}
