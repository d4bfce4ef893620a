package theme

import "sync"

// Update carries the latest weather description to theme consumers.
type Update struct {
	Description string
}

// Broadcaster fans weather-description updates out to subscribers and
// remembers the most recent one, so renders that happen between
// updates still see current state. Publishing never blocks: a
// subscriber that is not draining its channel misses updates rather
// than stalling the publisher.
type Broadcaster struct {
	mu   sync.RWMutex
	last Update
	subs map[chan Update]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		last: Update{Description: DefaultDescription},
		subs: make(map[chan Update]struct{}),
	}
}

// Publish records u as the current theme state and offers it to every
// subscriber.
func (b *Broadcaster) Publish(u Update) {
	b.mu.Lock()
	b.last = u
	for ch := range b.subs {
		select {
		case ch <- u:
		default:
		}
	}
	b.mu.Unlock()
}

// Subscribe registers a new consumer. The returned cancel func must be
// called when the consumer is done; it unregisters and closes the
// channel.
func (b *Broadcaster) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Current returns the most recently published update.
func (b *Broadcaster) Current() Update {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}
