package app

import (
	"log/slog"
	"sync"

	"github.com/Zilecito18/impostor-game/internal/domain"
)

// feedQueueSize bounds the per-room event queue.
const feedQueueSize = 100

// Subscriber is a connected client channel the broadcaster delivers to.
type Subscriber interface {
	Send(event *domain.Event) error
	Close() error
}

// Broadcaster maintains, per room, the set of connected subscribers and
// delivers events to all of them. Each room has its own buffered queue
// drained by a pump goroutine, so delivery runs concurrently with the
// next room mutation while events stay ordered per subscriber. A failed
// delivery drops the subscriber and never blocks the others.
type Broadcaster struct {
	mu     sync.RWMutex
	feeds  map[string]*roomFeed
	logger *slog.Logger
}

type roomFeed struct {
	mu     sync.Mutex
	subs   map[Subscriber]struct{}
	events chan *domain.Event
	done   chan struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		feeds:  make(map[string]*roomFeed),
		logger: logger,
	}
}

// Subscribe registers a subscriber for the room, starting the room's pump
// on first subscription.
func (b *Broadcaster) Subscribe(roomCode string, sub Subscriber) {
	b.mu.Lock()
	feed, ok := b.feeds[roomCode]
	if !ok {
		feed = &roomFeed{
			subs:   make(map[Subscriber]struct{}),
			events: make(chan *domain.Event, feedQueueSize),
			done:   make(chan struct{}),
		}
		b.feeds[roomCode] = feed
		go b.pump(roomCode, feed)
	}
	b.mu.Unlock()

	feed.mu.Lock()
	feed.subs[sub] = struct{}{}
	feed.mu.Unlock()
}

// Unsubscribe removes a subscriber from the room. The room's pump is kept
// until the room itself is closed, so a briefly empty room keeps its
// event order.
func (b *Broadcaster) Unsubscribe(roomCode string, sub Subscriber) {
	b.mu.RLock()
	feed, ok := b.feeds[roomCode]
	b.mu.RUnlock()
	if !ok {
		return
	}

	feed.mu.Lock()
	delete(feed.subs, sub)
	feed.mu.Unlock()
}

// SubscriberCount returns the number of subscribers for the room.
func (b *Broadcaster) SubscriberCount(roomCode string) int {
	b.mu.RLock()
	feed, ok := b.feeds[roomCode]
	b.mu.RUnlock()
	if !ok {
		return 0
	}

	feed.mu.Lock()
	defer feed.mu.Unlock()
	return len(feed.subs)
}

// Broadcast queues an event for delivery to every subscriber of the room.
// Rooms without subscribers drop the event silently.
func (b *Broadcaster) Broadcast(roomCode string, event *domain.Event) {
	b.mu.RLock()
	feed, ok := b.feeds[roomCode]
	b.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case feed.events <- event:
	default:
		b.logger.Warn("event queue full, dropping event", "roomCode", roomCode, "type", event.Type)
	}
}

// CloseRoom stops the room's pump and closes all of its subscribers.
func (b *Broadcaster) CloseRoom(roomCode string) {
	b.mu.Lock()
	feed, ok := b.feeds[roomCode]
	if ok {
		delete(b.feeds, roomCode)
	}
	b.mu.Unlock()
	if !ok {
		return
	}

	close(feed.done)

	feed.mu.Lock()
	for sub := range feed.subs {
		sub.Close()
	}
	feed.subs = make(map[Subscriber]struct{})
	feed.mu.Unlock()
}

// Close shuts down every room.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	feeds := b.feeds
	b.feeds = make(map[string]*roomFeed)
	b.mu.Unlock()

	for _, feed := range feeds {
		close(feed.done)
		feed.mu.Lock()
		for sub := range feed.subs {
			sub.Close()
		}
		feed.subs = make(map[Subscriber]struct{})
		feed.mu.Unlock()
	}
}

// pump drains the room's event queue and fans each event out.
func (b *Broadcaster) pump(roomCode string, feed *roomFeed) {
	for {
		select {
		case <-feed.done:
			return
		case event := <-feed.events:
			b.deliver(roomCode, feed, event)
		}
	}
}

// deliver sends one event to every subscriber, snapshotting the set first
// so registration changes during delivery are safe. Subscribers that fail
// to accept the event are dropped.
func (b *Broadcaster) deliver(roomCode string, feed *roomFeed, event *domain.Event) {
	feed.mu.Lock()
	subs := make([]Subscriber, 0, len(feed.subs))
	for sub := range feed.subs {
		subs = append(subs, sub)
	}
	feed.mu.Unlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			b.logger.Debug("dropping subscriber after failed delivery",
				"roomCode", roomCode, "type", event.Type, "error", err)
			feed.mu.Lock()
			delete(feed.subs, sub)
			feed.mu.Unlock()
			sub.Close()
		}
	}
}
