package utils

import (
	"github.com/sasha-s/go-deadlock"
)

const subscriberBuffer = 16

// Topic fans published values out to every live subscriber. Subscribers
// receive on buffered channels; Publish blocks if a buffer is full, so
// consumers are expected to drain promptly.
type Topic[T any] struct {
	mutex       deadlock.Mutex
	subscribers map[*Subscriber[T]]struct{}
	closed      bool
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{
		subscribers: make(map[*Subscriber[T]]struct{}),
	}
}

func (t *Topic[T]) Publish(value T) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.closed {
		return
	}
	for subscriber := range t.subscribers {
		subscriber.channel <- value
	}
}

// Close drops all subscribers and closes their channels. Publishing to a
// closed topic is a no-op.
func (t *Topic[T]) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for subscriber := range t.subscribers {
		close(subscriber.channel)
	}
	t.subscribers = nil
}

type Subscriber[T any] struct {
	channel chan T
	topic   *Topic[T]
}

func (t *Topic[T]) Subscribe() *Subscriber[T] {
	subscriber := &Subscriber[T]{
		channel: make(chan T, subscriberBuffer),
		topic:   t,
	}
	t.mutex.Lock()
	if !t.closed {
		t.subscribers[subscriber] = struct{}{}
	} else {
		close(subscriber.channel)
	}
	t.mutex.Unlock()
	return subscriber
}

func (s *Subscriber[T]) Recv() <-chan T {
	return s.channel
}

func (s *Subscriber[T]) Done() {
	topic := s.topic
	topic.mutex.Lock()
	if !topic.closed {
		delete(topic.subscribers, s)
	}
	topic.mutex.Unlock()
}
