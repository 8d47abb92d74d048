package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
)

// EntryFeedChannel is the Redis channel new entries are published on.
const EntryFeedChannel = "guest_entries:new"

const subscriberBuffer = 16

// EntryFeed pushes newly saved entries to connected admin dashboards.
// With Redis every instance publishes to EntryFeedChannel and a single
// subscriber per instance fans events out locally; without Redis events are
// delivered to local subscribers only.
type EntryFeed struct {
	client      *redis.Client
	mu          sync.RWMutex
	subscribers map[chan models.EntryEvent]struct{}
	started     sync.Once
}

func NewEntryFeed(client *redis.Client) *EntryFeed {
	return &EntryFeed{
		client:      client,
		subscribers: make(map[chan models.EntryEvent]struct{}),
	}
}

// PublishEntry announces a stored entry.
func (f *EntryFeed) PublishEntry(ctx context.Context, entry models.GuestEntry) error {
	event := models.EntryEvent{
		Type:      models.EntryEventCreated,
		Entry:     entry,
		Timestamp: time.Now().UTC(),
	}

	if f.client == nil {
		f.fanOut(event)
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, EntryFeedChannel, data).Err()
}

// Subscribe registers a local listener. The returned function unsubscribes
// and closes the channel.
func (f *EntryFeed) Subscribe() (<-chan models.EntryEvent, func()) {
	ch := make(chan models.EntryEvent, subscriberBuffer)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// SubscriberCount is the number of local listeners.
func (f *EntryFeed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// fanOut delivers to every local subscriber without blocking; slow
// subscribers miss events.
func (f *EntryFeed) fanOut(event models.EntryEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Start runs the shared Redis listener until ctx is cancelled. It is a no-op without Redis.
func (f *EntryFeed) Start(ctx context.Context) {
	if f.client == nil {
		return
	}
	f.started.Do(func() {
		go f.run(ctx)
	})
}

func (f *EntryFeed) run(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := f.listen(ctx, &backoff)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Dur("backoff", backoff).Msg("Entry feed subscriber error")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

func (f *EntryFeed) listen(ctx context.Context, backoff *time.Duration) error {
	pubsub := f.client.Subscribe(ctx, EntryFeedChannel)
	defer pubsub.Close()

	log.Info().Str("channel", EntryFeedChannel).Msg("Entry feed subscriber started")

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		*backoff = time.Second

		var event models.EntryEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Msg("Failed to unmarshal entry event")
			continue
		}
		f.fanOut(event)
	}
}
