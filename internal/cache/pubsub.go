package cache

import (
	"context"
	"errors"
)

// ErrNoRedis is returned by pub/sub operations on a client without a server.
var ErrNoRedis = errors.New("redis not configured")

// Message is a payload received on a subscribed channel.
type Message struct {
	Channel string
	Payload []byte
}

// Publish sends payload to every subscriber of channel.
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	if c == nil || c.client == nil {
		return ErrNoRedis
	}
	return c.client.Publish(ctx, channel, payload).Err()
}

// PSubscribe subscribes to every channel matching pattern. Messages are
// delivered until the returned close function is called, which also closes
// the message channel.
func (c *Client) PSubscribe(ctx context.Context, pattern string) (<-chan Message, func() error, error) {
	if c == nil || c.client == nil {
		return nil, nil, ErrNoRedis
	}

	ps := c.client.PSubscribe(ctx, pattern)
	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, ps.Close, nil
}
