package qrcode

import (
	"context"
	"sync"
	"time"
)

const defaultCacheEntries = 256

type cachedPayload struct {
	Payload  Payload
	CachedAt time.Time
}

// CachedEncoder remembers successful results of the wrapped encoder for ttl.
// Failures are never cached.
type CachedEncoder struct {
	next       Encoder
	ttl        time.Duration
	maxEntries int

	mu    sync.Mutex
	store map[string]cachedPayload
	now   func() time.Time
}

func NewCachedEncoder(next Encoder, ttl time.Duration) *CachedEncoder {
	return &CachedEncoder{
		next:       next,
		ttl:        ttl,
		maxEntries: defaultCacheEntries,
		store:      make(map[string]cachedPayload),
		now:        time.Now,
	}
}

func (c *CachedEncoder) Encode(ctx context.Context, text string, opts Options) (Payload, error) {
	key := opts.key() + "|" + text

	if p, ok := c.get(key); ok {
		return p, nil
	}

	p, err := c.next.Encode(ctx, text, opts)
	if err != nil {
		return Payload{}, err
	}

	c.set(key, p)
	return p, nil
}

func (c *CachedEncoder) get(key string) (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store[key]
	if !ok {
		return Payload{}, false
	}

	if c.now().Sub(entry.CachedAt) > c.ttl {
		delete(c.store, key)
		return Payload{}, false
	}

	return entry.Payload, true
}

func (c *CachedEncoder) set(key string, p Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.store) >= c.maxEntries {
		for k, v := range c.store {
			if now.Sub(v.CachedAt) > c.ttl {
				delete(c.store, k)
			}
		}
	}
	// Still full: drop an arbitrary entry.
	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = cachedPayload{Payload: p, CachedAt: now}
}

// Len returns the number of cached entries, expired or not.
func (c *CachedEncoder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}
