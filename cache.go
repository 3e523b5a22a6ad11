package flowgraph

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// ResultCache memoizes a processor's Response by the content of its
// Request, so that re-executing an otherwise-identical run (same
// processor, same payload, same input metadata) never has to re-invoke a
// Processor that has already produced a result for that exact input. This
// is strictly an optimization: a run with Options.Cache set produces the
// same Results as one without, provided every registered Processor is pure
// with respect to (id, Request) — the same contract the teacher's
// Signature-based keying assumes of its contracts.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]Response
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{store: make(map[string]Response)}
}

// cacheSignature is the cache key: a msgpack encoding of everything that
// determines a processor's output, hashed down to a fixed-width digest so
// keys stay cheap to store and compare regardless of payload size.
type cacheSignature struct {
	ID       string
	Payload  []byte
	Metadata Metadata
}

func signatureKey(id string, req Request) (string, error) {
	encoded, err := msgpack.Marshal(cacheSignature{ID: id, Payload: req.Payload, Metadata: req.Metadata})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the memoized Response for (id, req), if one exists. A
// marshal failure (possible only for a Request holding a non-msgpack-able
// metadata value, which this package never constructs) is treated as a
// cache miss rather than an error.
func (c *ResultCache) Get(id string, req Request) (Response, bool) {
	key, err := signatureKey(id, req)
	if err != nil {
		return Response{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.store[key]
	return resp, ok
}

// Put memoizes resp for (id, req). Only Success responses should be
// memoized by callers — an Error or Cancelled outcome is run-specific and
// must never leak across runs via the cache.
func (c *ResultCache) Put(id string, req Request, resp Response) {
	key, err := signatureKey(id, req)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = resp
}
