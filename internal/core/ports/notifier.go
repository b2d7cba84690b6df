package ports

import (
	"context"

	"github.com/libris/library-api/internal/core/domain"
)

// BookNotifier broadcasts newly added books to live subscription listeners.
// There is no replay: a subscriber only sees books published after it
// subscribed.
type BookNotifier interface {
	// Publish delivers the book (author populated) to all current subscribers.
	Publish(ctx context.Context, book *domain.Book) error
	// Subscribe registers a listener. The returned channel is closed when
	// ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan *domain.Book, error)
}
