package realtime

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendQueueSize  = 64
)

// Client is one websocket connection. It reads client frames, routes them
// through the broker and writes frames queued for it.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan Frame
	broker *Broker
	logger *log.Logger
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn, broker *Broker, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan Frame, sendQueueSize),
		broker: broker,
		logger: logger.With("client", id),
	}
}

// ID identifies the client within the broker.
func (c *Client) ID() string {
	return c.id
}

// Deliver queues f without blocking.
func (c *Client) Deliver(f Frame) bool {
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// Serve runs the connection until the peer disconnects or ctx ends.
// Closing the connection unsubscribes the client.
func (c *Client) Serve(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		c.writePump()
		close(done)
	}()

	c.readPump(ctx)

	c.broker.Unsubscribe(c)
	close(c.send)
	<-done
}

func (c *Client) readPump(ctx context.Context) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("connection closed", "err", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.handle(ctx, f)
	}
}

func (c *Client) handle(ctx context.Context, f Frame) {
	if f.Event == EventOpenProject {
		projectID, err := ProjectIDOf(f.Data)
		if err != nil {
			c.logger.Debug("open project without id", "err", err)
			return
		}
		c.broker.Subscribe(projectID, c)
		return
	}

	outbound, ok := OutboundName(f.Event)
	if !ok {
		c.logger.Debug("ignoring unknown event", "event", f.Event)
		return
	}
	projectID, err := TaskProjectID(f.Data)
	if err != nil {
		c.logger.Debug("task event without project", "event", f.Event, "err", err)
		return
	}
	if err := c.broker.Publish(ctx, projectID, Frame{Event: outbound, Data: f.Data}, c.id); err != nil {
		c.logger.Warn("publish failed", "event", f.Event, "project", projectID, "err", err)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
