package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/libris/library-api/internal/core/domain"
)

const (
	bookAddedChannel = "library:book_added"
	subscriberBuffer = 16
)

// BookNotifier broadcasts added books over Redis Pub/Sub, so subscription
// listeners on every server instance see books added through any of them.
// Delivery is fan-out to currently connected listeners only; Redis Pub/Sub
// keeps no history.
type BookNotifier struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewBookNotifier(client *redis.Client, log zerolog.Logger) *BookNotifier {
	return &BookNotifier{client: client, log: log}
}

// Publish serialises the book (author included) and publishes it on the
// book-added channel.
func (n *BookNotifier) Publish(ctx context.Context, book *domain.Book) error {
	payload, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("encode book event: %w", err)
	}
	if err := n.client.Publish(ctx, bookAddedChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish book event: %w", err)
	}
	return nil
}

// Subscribe opens a Redis subscription and bridges it onto a typed channel.
// The channel is closed when ctx is cancelled.
func (n *BookNotifier) Subscribe(ctx context.Context) (<-chan *domain.Book, error) {
	sub := n.client.Subscribe(ctx, bookAddedChannel)

	// Force the subscription to be established before returning, so a
	// publish immediately after Subscribe is not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe book events: %w", err)
	}

	out := make(chan *domain.Book, subscriberBuffer)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var book domain.Book
				if err := json.Unmarshal([]byte(msg.Payload), &book); err != nil {
					n.log.Error().Err(err).Msg("malformed book event payload")
					continue
				}
				select {
				case out <- &book:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
