package realtime

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/cache"
)

type fakeSubscriber struct {
	id    string
	limit int

	mu     sync.Mutex
	frames []Frame
}

func newFake(id string) *fakeSubscriber {
	return &fakeSubscriber{id: id, limit: 100}
}

func (f *fakeSubscriber) ID() string { return f.id }

func (f *fakeSubscriber) Deliver(fr Frame) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) >= f.limit {
		return false
	}
	f.frames = append(f.frames, fr)
	return true
}

func (f *fakeSubscriber) received() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Frame(nil), f.frames...)
}

func taskFrame(event string) Frame {
	return Frame{Event: event, Data: json.RawMessage(`{"id":"t1","project":"p1"}`)}
}

func TestBroker_PublishSkipsSenderAndOtherChannels(t *testing.T) {
	b := NewBroker(nil, nil)
	alice, bob, carol := newFake("alice"), newFake("bob"), newFake("carol")

	b.Subscribe("p1", alice)
	b.Subscribe("p1", bob)
	b.Subscribe("p2", carol)

	require.NoError(t, b.Publish(context.Background(), "p1", taskFrame(EventTaskAdded), alice.ID()))

	assert.Empty(t, alice.received())
	require.Len(t, bob.received(), 1)
	assert.Equal(t, EventTaskAdded, bob.received()[0].Event)
	assert.Empty(t, carol.received())
}

func TestBroker_SubscribeMovesBetweenChannels(t *testing.T) {
	b := NewBroker(nil, nil)
	alice, bob := newFake("alice"), newFake("bob")

	b.Subscribe("p1", bob)
	b.Subscribe("p2", bob)

	assert.Equal(t, 0, b.Subscribers("p1"))
	assert.Equal(t, 1, b.Subscribers("p2"))
	ch, ok := b.ChannelOf("bob")
	assert.True(t, ok)
	assert.Equal(t, "p2", ch)

	require.NoError(t, b.Publish(context.Background(), "p1", taskFrame(EventTaskAdded), alice.ID()))
	assert.Empty(t, bob.received())
}

func TestBroker_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker(nil, nil)
	bob := newFake("bob")

	b.Subscribe("p1", bob)
	b.Unsubscribe(bob)
	b.Unsubscribe(bob)

	require.NoError(t, b.Publish(context.Background(), "p1", taskFrame(EventTaskDeleted), "alice"))
	assert.Empty(t, bob.received())
	_, ok := b.ChannelOf("bob")
	assert.False(t, ok)
}

func TestBroker_FullQueueDropsEvent(t *testing.T) {
	b := NewBroker(nil, nil)
	slow := newFake("slow")
	slow.limit = 1
	b.Subscribe("p1", slow)

	assert.Equal(t, 1, b.fanOut("p1", taskFrame(EventTaskAdded), "alice"))
	assert.Equal(t, 0, b.fanOut("p1", taskFrame(EventTaskUpdated), "alice"))
	assert.Len(t, slow.received(), 1)
}

func TestBroker_RelayAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := NewBroker(cache.New(mr.Addr(), "", 0), nil)
	second := NewBroker(cache.New(mr.Addr(), "", 0), nil)
	go first.Run(ctx)
	go second.Run(ctx)

	alice, bob := newFake("alice"), newFake("bob")
	first.Subscribe("p1", alice)
	second.Subscribe("p1", bob)

	// Run subscribes asynchronously; publish until the relay is live.
	require.Eventually(t, func() bool {
		_ = first.Publish(ctx, "p1", taskFrame(EventNewState), alice.ID())
		return len(bob.received()) > 0
	}, 3*time.Second, 50*time.Millisecond)

	assert.Equal(t, EventNewState, bob.received()[0].Event)
	assert.Empty(t, alice.received())
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestBroker_RelayComesUpAfterStart(t *testing.T) {
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := cache.New(addr, "", 0)
	defer relay.Close()
	b := NewBroker(relay, nil)
	b.retryMin = 20 * time.Millisecond
	b.retryMax = 100 * time.Millisecond
	go b.Run(ctx)

	alice, bob := newFake("alice"), newFake("bob")
	b.Subscribe("p1", alice)
	b.Subscribe("p1", bob)

	// Redis is down: the relay publish fails but local subscribers are served.
	assert.Error(t, b.Publish(ctx, "p1", taskFrame(EventTaskAdded), alice.ID()))
	require.Len(t, bob.received(), 1)

	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.StartAddr(addr))
	defer mr.Close()

	// Publishing before the subscription is back still reaches bob exactly once.
	require.NoError(t, b.Publish(ctx, "p1", taskFrame(EventTaskUpdated), alice.ID()))
	require.Eventually(t, func() bool {
		return len(bob.received()) == 2
	}, 3*time.Second, 10*time.Millisecond)

	require.Eventually(t, b.subscribed.Load, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, b.Publish(ctx, "p1", taskFrame(EventNewState), alice.ID()))
	require.Eventually(t, func() bool {
		return len(bob.received()) == 3
	}, 3*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	frames := bob.received()
	require.Len(t, frames, 3)
	assert.Equal(t, EventTaskAdded, frames[0].Event)
	assert.Equal(t, EventTaskUpdated, frames[1].Event)
	assert.Equal(t, EventNewState, frames[2].Event)
	assert.Empty(t, alice.received())
}
