package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/libris/library-api/internal/core/domain"
)

func testBook(title string) *domain.Book {
	return &domain.Book{
		ID:     "book_1",
		Title:  title,
		Genres: []string{"scifi"},
		Author: &domain.Author{ID: "author_1", Name: "Frank Herbert"},
	}
}

func receive(t *testing.T, ch <-chan *domain.Book) *domain.Book {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(time.Second):
		t.Fatalf("no book received")
		return nil
	}
}

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	broker := NewBroker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := broker.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	second, err := broker.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	if err := broker.Publish(ctx, testBook("Dune")); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	for _, ch := range []<-chan *domain.Book{first, second} {
		book := receive(t, ch)
		if book.Title != "Dune" || book.Author == nil || book.Author.Name != "Frank Herbert" {
			t.Fatalf("unexpected book: %+v", book)
		}
	}
}

func TestBroker_NoReplayForLateSubscribers(t *testing.T) {
	broker := NewBroker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := broker.Publish(ctx, testBook("Dune")); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	ch, err := broker.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	select {
	case b := <-ch:
		t.Fatalf("late subscriber received replayed book %q", b.Title)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	broker := NewBroker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := broker.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel, got a book")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after context cancellation")
	}

	// A publish after the subscriber is gone must not block or panic.
	if err := broker.Publish(context.Background(), testBook("Dune")); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
}

func TestBroker_SlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	broker := NewBroker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := broker.Subscribe(ctx); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Overflow the subscriber buffer without ever draining it.
		for i := 0; i < subscriberBuffer*2; i++ {
			_ = broker.Publish(ctx, testBook("Dune"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publisher blocked on a slow subscriber")
	}
}
