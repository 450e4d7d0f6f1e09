package ws

import (
	"sync"
	"time"

	"github.com/badgerspace/backend/internal/notify"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// client is one websocket connection fed by notifier subscriptions.
type client struct {
	conn *websocket.Conn
	send chan []byte
	subs []*notify.Subscription
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
}

// enqueue hands an encoded event to the write pump. A client that cannot
// keep up is dropped rather than allowed to stall the dispatch goroutine.
// The send channel is never closed: an unsubscribed callback may still be
// mid-delivery when teardown starts, so late enqueues must only find the
// closed flag, never a closed channel.
func (c *client) enqueue(payload []byte) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case c.send <- payload:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		go c.close()
	}
}

func (c *client) readPump() {
	defer c.close()
	c.conn.SetReadLimit(8 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// The stream is one-way; reads only surface closes and pongs.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close tears the client down exactly once: flips the flag so enqueue turns
// into a no-op, detaches the subscriptions, then signals the write pump via
// done and closes the underlying connection.
func (c *client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	for _, s := range c.subs {
		s.Unsubscribe()
	}
	close(c.done)
	_ = c.conn.Close()
}
