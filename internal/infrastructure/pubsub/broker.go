// Package pubsub provides the in-process implementation of the book-added
// change notifier: a channel-based broker fanning events out to whatever
// subscribers exist at publish time.
package pubsub

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/libris/library-api/internal/api/metrics"
	"github.com/libris/library-api/internal/core/domain"
)

const subscriberBuffer = 16

// Broker implements ports.BookNotifier for a single process. It holds the
// only shared mutable state between requests, guarded by a mutex.
type Broker struct {
	mu   sync.Mutex
	subs map[int]chan *domain.Book
	next int
	log  zerolog.Logger
}

func NewBroker(log zerolog.Logger) *Broker {
	return &Broker{subs: make(map[int]chan *domain.Book), log: log}
}

// Publish delivers the book to every current subscriber. A subscriber whose
// buffer is full misses the event rather than blocking the publisher.
func (b *Broker) Publish(_ context.Context, book *domain.Book) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- book:
		default:
			b.log.Warn().Int("subscriber_id", id).Str("title", book.Title).
				Msg("slow subscriber, book event dropped")
		}
	}
	return nil
}

// Subscribe registers a listener. The returned channel is closed and the
// listener deregistered once ctx is cancelled.
func (b *Broker) Subscribe(ctx context.Context) (<-chan *domain.Book, error) {
	ch := make(chan *domain.Book, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	metrics.SubscribersActive.Inc()

	go func() {
		<-ctx.Done()

		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()

		close(ch)
		metrics.SubscribersActive.Dec()
	}()

	return ch, nil
}
