package app

import (
	"context"
	"sync"
)

// Hub fans out "new result" signals to live leaderboard subscribers of a quiz.
// It implements ResultNotifier for single-instance deployments and is fed by a
// relay when results are announced across instances.
type Hub struct {
	mu          sync.Mutex
	subscribers map[int64]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[int64]map[chan struct{}]struct{})}
}

// Subscribe returns a channel that receives a signal whenever a result is
// submitted to quizID. The caller must invoke the returned cancel function to
// avoid leaks.
func (h *Hub) Subscribe(quizID int64) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	subs, ok := h.subscribers[quizID]
	if !ok {
		subs = make(map[chan struct{}]struct{})
		h.subscribers[quizID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[quizID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, quizID)
		}
	}
	return ch, cancel
}

// ResultSubmitted signals every subscriber of quizID without blocking. A
// subscriber that has not consumed its previous signal keeps that single pending
// signal; it recomputes the leaderboard once either way.
func (h *Hub) ResultSubmitted(_ context.Context, quizID int64) error {
	h.Notify(quizID)
	return nil
}

// Notify is the context-free form of ResultSubmitted used by relays.
func (h *Hub) Notify(quizID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[quizID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports how many live subscribers quizID has.
func (h *Hub) Subscribers(quizID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[quizID])
}
