// Package realtime relays task events between clients viewing the same
// project. Delivery is best-effort and at-most-once; nothing is persisted.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskboard/internal/cache"
)

const channelPrefix = "taskboard:project:"

const (
	relayRetryMin = 500 * time.Millisecond
	relayRetryMax = 30 * time.Second
)

var errRelayClosed = errors.New("relay subscription closed")

// Subscriber is a connected client. Deliver must not block; it reports
// whether the frame was queued.
type Subscriber interface {
	ID() string
	Deliver(f Frame) bool
}

// Relay carries published events between server instances.
// *cache.Client satisfies it.
type Relay interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	PSubscribe(ctx context.Context, pattern string) (<-chan cache.Message, func() error, error)
}

type envelope struct {
	ProjectID string `json:"project_id"`
	SenderID  string `json:"sender_id"`
	Frame     Frame  `json:"frame"`
	// Instance is the broker that published the event. Local is set when
	// that broker already delivered it to its own subscribers.
	Instance string `json:"instance"`
	Local    bool   `json:"local,omitempty"`
}

// Broker keeps the per-project subscriber sets. A subscriber belongs to at
// most one project channel at a time.
type Broker struct {
	mu       sync.RWMutex
	channels map[string]map[string]Subscriber
	current  map[string]string

	relay      Relay
	instance   string
	subscribed atomic.Bool
	retryMin   time.Duration
	retryMax   time.Duration
	logger     *log.Logger
}

// NewBroker creates a broker. With a nil relay events are delivered to
// local subscribers only.
func NewBroker(relay Relay, logger *log.Logger) *Broker {
	if logger == nil {
		logger = log.Default()
	}
	return &Broker{
		channels: make(map[string]map[string]Subscriber),
		current:  make(map[string]string),
		relay:    relay,
		instance: uuid.NewString(),
		retryMin: relayRetryMin,
		retryMax: relayRetryMax,
		logger:   logger.WithPrefix("realtime"),
	}
}

// Subscribe moves s into projectID's channel, leaving any previous one.
func (b *Broker) Subscribe(projectID string, s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.leaveLocked(s.ID())
	subs, ok := b.channels[projectID]
	if !ok {
		subs = make(map[string]Subscriber)
		b.channels[projectID] = subs
	}
	subs[s.ID()] = s
	b.current[s.ID()] = projectID
}

// Unsubscribe removes s from its channel. Once it returns no further frames
// are delivered to s.
func (b *Broker) Unsubscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.leaveLocked(s.ID())
}

func (b *Broker) leaveLocked(id string) {
	projectID, ok := b.current[id]
	if !ok {
		return
	}
	delete(b.current, id)
	if subs, ok := b.channels[projectID]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(b.channels, projectID)
		}
	}
}

// ChannelOf returns the project channel the subscriber is in.
func (b *Broker) ChannelOf(id string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	projectID, ok := b.current[id]
	return projectID, ok
}

// Subscribers returns the number of local subscribers of a project channel.
func (b *Broker) Subscribers(projectID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels[projectID])
}

// Publish sends f to every subscriber of projectID except senderID. With a
// live relay subscription the event goes through the relay and is delivered
// locally by Run. Until that subscription is up, or when the relay fails,
// local subscribers are served directly.
func (b *Broker) Publish(ctx context.Context, projectID string, f Frame, senderID string) error {
	if b.relay == nil {
		b.fanOut(projectID, f, senderID)
		return nil
	}

	env := envelope{ProjectID: projectID, SenderID: senderID, Frame: f, Instance: b.instance}
	if !b.subscribed.Load() {
		b.fanOut(projectID, f, senderID)
		env.Local = true
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.relay.Publish(ctx, channelPrefix+projectID, payload); err != nil {
		if !env.Local {
			b.fanOut(projectID, f, senderID)
		}
		return fmt.Errorf("relay event: %w", err)
	}
	return nil
}

// Run consumes the relay until ctx is done, resubscribing with backoff
// whenever the subscription cannot be established or ends. Without a relay
// it only waits.
func (b *Broker) Run(ctx context.Context) {
	if b.relay == nil {
		<-ctx.Done()
		return
	}

	wait := b.retryMin
	for {
		live, err := b.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if live {
			wait = b.retryMin
		}
		b.logger.Warn("relay unavailable, retrying", "in", wait, "err", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		wait = min(wait*2, b.retryMax)
	}
}

// consume runs one relay subscription. live reports whether the
// subscription was established before it ended.
func (b *Broker) consume(ctx context.Context) (live bool, err error) {
	msgs, closeSub, err := b.relay.PSubscribe(ctx, channelPrefix+"*")
	if err != nil {
		return false, fmt.Errorf("subscribe relay: %w", err)
	}
	defer closeSub()

	b.subscribed.Store(true)
	defer b.subscribed.Store(false)

	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return true, errRelayClosed
			}
			var env envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				b.logger.Warn("dropping malformed relay message", "channel", msg.Channel, "err", err)
				continue
			}
			if env.Local && env.Instance == b.instance {
				continue
			}
			if env.ProjectID == "" {
				env.ProjectID = strings.TrimPrefix(msg.Channel, channelPrefix)
			}
			b.fanOut(env.ProjectID, env.Frame, env.SenderID)
		}
	}
}

// fanOut delivers to local subscribers and returns how many accepted the frame.
func (b *Broker) fanOut(projectID string, f Frame, senderID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for id, s := range b.channels[projectID] {
		if id == senderID {
			continue
		}
		if s.Deliver(f) {
			delivered++
			continue
		}
		b.logger.Debug("subscriber queue full, event dropped", "subscriber", id, "project", projectID, "event", f.Event)
	}
	return delivered
}
