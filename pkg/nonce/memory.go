package nonce

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type claim struct {
	expiresAt time.Time
	key       string
}

// Memory is an in-process Store.
//
// Claims are kept in a map for lookups and in a list ordered by insertion so
// the janitor and the size cap can drop the oldest entries first.
type Memory struct {
	items  map[string]*list.Element
	order  *list.List
	opts   *memoryOptions
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates an in-memory store. A janitor goroutine runs while the
// cleanup interval is positive; call Close to stop it.
func NewMemory(opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items: make(map[string]*list.Element),
		order: list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Claim implements Store.
func (m *Memory) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	if ttl <= 0 {
		return false, ErrInvalidTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrClosed
	}

	now := m.opts.now()
	if elem, ok := m.items[key]; ok {
		if now.Before(elem.Value.(*claim).expiresAt) {
			return false, nil
		}
		m.remove(elem)
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		m.remove(m.order.Front())
	}

	m.items[key] = m.order.PushBack(&claim{key: key, expiresAt: now.Add(ttl)})
	return true, nil
}

// Len returns the number of recorded claims, including expired ones the
// janitor has not yet removed.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	for elem := m.order.Front(); elem != nil; {
		next := elem.Next()
		if !now.Before(elem.Value.(*claim).expiresAt) {
			m.remove(elem)
		}
		elem = next
	}
}

// remove drops elem. Caller must hold the mutex.
func (m *Memory) remove(elem *list.Element) {
	if elem == nil {
		return
	}
	m.order.Remove(elem)
	delete(m.items, elem.Value.(*claim).key)
}

var _ Store = (*Memory)(nil)
