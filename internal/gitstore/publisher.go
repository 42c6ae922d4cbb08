package gitstore

import "sync"

// Listener is invoked after every successful mutation or non-empty pull.
// Listeners must be fast or dispatch asynchronously: they are called from
// the operation's own goroutine and must not block the serializer for
// long.
type Listener func()

// Publisher maintains a set of listeners and fires them on demand.
// Listeners may be (un)bound at any time and are always safe to call
// concurrently with Fire.
type Publisher struct {
	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewPublisher returns an empty Publisher.
func NewPublisher() *Publisher {
	return &Publisher{listeners: make(map[int]Listener)}
}

// Subscribe registers l and returns a token for Unsubscribe.
func (p *Publisher) Subscribe(l Listener) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	return id
}

// Unsubscribe removes a previously registered listener.
func (p *Publisher) Unsubscribe(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.listeners, id)
}

// Fire invokes every registered listener. A panicking listener is
// recovered and does not prevent the remaining listeners from running.
func (p *Publisher) Fire() {
	p.mu.Lock()
	listeners := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		func() {
			defer func() {
				recover()
			}()
			l()
		}()
	}
}
