package app_test

import (
	"context"
	"testing"
	"time"

	"inno-quiz-service/internal/app"
)

func TestHubSubscribeReceivesUpdates(t *testing.T) {
	hub := app.NewHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	if err := hub.ResultSubmitted(context.Background(), 1); err != nil {
		t.Fatalf("notify: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected update")
	}
}

func TestHubIsolatesQuizzes(t *testing.T) {
	hub := app.NewHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Notify(2)

	select {
	case <-ch:
		t.Fatal("unexpected update for another quiz")
	default:
	}
}

func TestHubDoesNotBlockOnSlowSubscriber(t *testing.T) {
	hub := app.NewHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Notify(1)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notify blocked")
	}
	<-ch
	select {
	case <-ch:
		t.Fatal("expected signals to coalesce")
	default:
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := app.NewHub()
	ch, cancel := hub.Subscribe(1)
	if hub.Subscribers(1) != 1 {
		t.Fatalf("expected one subscriber")
	}

	cancel()
	cancel()

	if hub.Subscribers(1) != 0 {
		t.Fatalf("expected no subscribers after cancel")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
}
