// Package fingerprint caches block results by a content hash of everything
// that determines them.
package fingerprint

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/birdayz/kblocks/kmodel"
	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies the inputs of one block execution.
type Fingerprint uint64

// Compute hashes the block type, its encoded config, the rows and column
// order supplied for it and the fingerprints of its upstream blocks in port
// order. It fails only when the config or rows cannot be encoded.
func Compute(block *kmodel.Block, supplied *kmodel.RowSet, upstream []Fingerprint) (Fingerprint, error) {
	d := xxhash.New()
	writeString(d, string(block.Type))

	cfg, err := json.Marshal(block.Config)
	if err != nil {
		return 0, err
	}
	writeBytes(d, cfg)

	if supplied != nil {
		rows, err := json.Marshal(struct {
			Columns []string
			Rows    []kmodel.Row
		}{supplied.Columns, supplied.Rows})
		if err != nil {
			return 0, err
		}
		writeBytes(d, rows)
	} else {
		writeBytes(d, nil)
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(upstream)))
	_, _ = d.Write(buf[:])
	for _, fp := range upstream {
		binary.LittleEndian.PutUint64(buf[:], uint64(fp))
		_, _ = d.Write(buf[:])
	}
	return Fingerprint(d.Sum64()), nil
}

// Length-prefixed so that adjacent fields cannot collide.
func writeBytes(d *xxhash.Digest, b []byte) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(b)))
	_, _ = d.Write(buf[:])
	_, _ = d.Write(b)
}

func writeString(d *xxhash.Digest, s string) {
	writeBytes(d, []byte(s))
}

type entry struct {
	fp     Fingerprint
	result kmodel.ExecutionResult
}

// Cache maps block ids to their last result and its fingerprint. It is safe
// for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	hits    int
	misses  int
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
	}
}

// Get returns the cached result of a block if it was stored under the same
// fingerprint.
func (c *Cache) Get(blockID string, fp Fingerprint) (kmodel.ExecutionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[blockID]
	if !ok || e.fp != fp {
		c.misses++
		return kmodel.ExecutionResult{}, false
	}
	c.hits++
	return e.result, true
}

// Put stores the result of a block. Failed results are not cached.
func (c *Cache) Put(blockID string, fp Fingerprint, result kmodel.ExecutionResult) {
	if result.Failed() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[blockID] = entry{fp: fp, result: result}
}

// Invalidate drops the entry of a block.
func (c *Cache) Invalidate(blockID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, blockID)
}

// Reset drops all entries and counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.hits, c.misses = 0, 0
}

// Stats returns the number of hits and misses since the last Reset.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
