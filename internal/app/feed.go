package app

import (
	"sync"

	"kambaz-quiz-service/internal/domain"
)

// Feed fans attempt events for one quiz out to its subscribers.
type Feed struct {
	quizID      string
	mu          sync.Mutex
	subscribers map[chan domain.AttemptEvent]struct{}
}

// NewFeed is exported for infrastructure layers that keep feeds.
func NewFeed(quizID string) *Feed {
	return &Feed{
		quizID:      quizID,
		subscribers: make(map[chan domain.AttemptEvent]struct{}),
	}
}

// QuizID returns the quiz the feed belongs to.
func (f *Feed) QuizID() string {
	return f.quizID
}

// IsEmpty reports whether nobody is subscribed.
func (f *Feed) IsEmpty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers) == 0
}

func (f *Feed) subscribe() (<-chan domain.AttemptEvent, func()) {
	ch := make(chan domain.AttemptEvent, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *Feed) publish(event domain.AttemptEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscriber: drop its oldest event rather than block the submitter.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
