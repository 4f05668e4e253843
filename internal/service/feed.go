package service

import (
	"sync"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

const defaultFeedBuffer = 16

// Feed fans accepted blocks out to live viewers.
// Delivery is best effort: a subscriber whose buffer is full misses the event.
type Feed struct {
	mu   sync.RWMutex
	subs map[chan model.BlockRecord]struct{}
}

// NewFeed returns an empty Feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[chan model.BlockRecord]struct{})}
}

// Subscribe returns a channel of accepted blocks and a cancel func that closes it.
func (f *Feed) Subscribe(buffer int) (<-chan model.BlockRecord, func()) {
	if buffer <= 0 {
		buffer = defaultFeedBuffer
	}
	ch := make(chan model.BlockRecord, buffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers rec to every subscriber without blocking.
func (f *Feed) Publish(rec model.BlockRecord) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
