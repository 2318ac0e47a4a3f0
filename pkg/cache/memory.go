package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/creasty/defaults"
)

type memEntry struct {
	key      string
	payload  []byte
	deadline time.Time
}

// MemoryCache is a bounded LRU of encoded values with per-key expiry.
type MemoryCache struct {
	cfg     MemoryConfig
	mu      sync.Mutex
	order   *list.List // front is most recently used
	entries map[string]*list.Element
	stop    chan struct{}
	stopped sync.Once
}

func NewMemoryCache(cfg MemoryConfig) *MemoryCache {
	_ = defaults.Set(&cfg)
	mc := &MemoryCache{
		cfg:     cfg,
		order:   list.New(),
		entries: make(map[string]*list.Element),
		stop:    make(chan struct{}),
	}
	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	payload, err := encode(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = mc.cfg.DefaultTTL
	}
	mc.put(key, payload, time.Now().Add(expiration))
	return nil
}

func (mc *MemoryCache) put(key string, payload []byte, deadline time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.entries[key]; ok {
		e := el.Value.(*memEntry)
		e.payload, e.deadline = payload, deadline
		mc.order.MoveToFront(el)
		return
	}
	for mc.order.Len() >= mc.cfg.MaxEntries && mc.order.Len() > 0 {
		mc.removeLocked(mc.order.Back())
	}
	mc.entries[key] = mc.order.PushFront(&memEntry{key: key, payload: payload, deadline: deadline})
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	el, ok := mc.entries[key]
	if !ok {
		mc.mu.Unlock()
		return ErrCacheMiss
	}
	e := el.Value.(*memEntry)
	if time.Now().After(e.deadline) {
		mc.removeLocked(el)
		mc.mu.Unlock()
		return ErrCacheMiss
	}
	mc.order.MoveToFront(el)
	payload := e.payload
	mc.mu.Unlock()

	return decode(payload, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, k := range keys {
		if el, ok := mc.entries[k]; ok {
			mc.removeLocked(el)
		}
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.order.Len()
}

func (mc *MemoryCache) removeLocked(el *list.Element) {
	delete(mc.entries, el.Value.(*memEntry).key)
	mc.order.Remove(el)
}

func (mc *MemoryCache) sweep() {
	t := time.NewTicker(mc.cfg.SweepEvery)
	defer t.Stop()
	for {
		select {
		case <-mc.stop:
			return
		case now := <-t.C:
			mc.mu.Lock()
			for el := mc.order.Back(); el != nil; {
				prev := el.Prev()
				if now.After(el.Value.(*memEntry).deadline) {
					mc.removeLocked(el)
				}
				el = prev
			}
			mc.mu.Unlock()
		}
	}
}

// Close stops the expiry sweeper.
func (mc *MemoryCache) Close() error {
	mc.stopped.Do(func() { close(mc.stop) })
	return nil
}
