// Package evalcache memoizes scenario evaluations keyed by a hash of the
// (Configuration, Settings) pair. Entries never expire on their own; owners
// call Purge whenever the settings they evaluate under change.
package evalcache

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"

	"scenario-engine/internal/model"
)

type entry struct {
	material []byte
	result   model.ScenarioResult
	messages []model.CalculationMessage
}

type Cache struct {
	entries sync.Map
	size    atomic.Int64
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func New() *Cache {
	return &Cache{}
}

type keyMaterial struct {
	Configuration model.Configuration `json:"c"`
	Settings      model.Settings      `json:"s"`
}

// Key returns the hash of cfg and s along with the bytes it was computed
// from. Map keys are encoded in sorted order so equal inputs hash equally.
func Key(cfg model.Configuration, s model.Settings) (uint64, []byte, error) {
	b, err := json.Marshal(keyMaterial{Configuration: cfg, Settings: s})
	if err != nil {
		return 0, nil, err
	}
	return xxhash.Sum64(b), b, nil
}

// Get returns a cached result. Hash collisions are detected by comparing the
// stored key material.
func (c *Cache) Get(cfg model.Configuration, s model.Settings) (model.ScenarioResult, []model.CalculationMessage, bool) {
	if c == nil {
		return model.ScenarioResult{}, nil, false
	}
	key, material, err := Key(cfg, s)
	if err != nil {
		c.misses.Add(1)
		return model.ScenarioResult{}, nil, false
	}
	v, ok := c.entries.Load(key)
	if !ok {
		c.misses.Add(1)
		return model.ScenarioResult{}, nil, false
	}
	e := v.(*entry)
	if !bytes.Equal(e.material, material) {
		c.misses.Add(1)
		return model.ScenarioResult{}, nil, false
	}
	c.hits.Add(1)
	return cloneResult(e.result), cloneMessages(e.messages), true
}

func (c *Cache) Store(cfg model.Configuration, s model.Settings, r model.ScenarioResult, msgs []model.CalculationMessage) {
	if c == nil {
		return
	}
	key, material, err := Key(cfg, s)
	if err != nil {
		return
	}
	if _, loaded := c.entries.Swap(key, &entry{material: material, result: cloneResult(r), messages: cloneMessages(msgs)}); !loaded {
		c.size.Add(1)
	}
}

// Purge drops every entry.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.entries.Range(func(k, _ any) bool {
		if _, loaded := c.entries.LoadAndDelete(k); loaded {
			c.size.Add(-1)
		}
		return true
	})
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return int(c.size.Load())
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

func cloneMessages(msgs []model.CalculationMessage) []model.CalculationMessage {
	if msgs == nil {
		return nil
	}
	out := make([]model.CalculationMessage, len(msgs))
	copy(out, msgs)
	return out
}

// cloneResult copies the parts of r that alias memory so callers cannot
// mutate a cached entry.
func cloneResult(r model.ScenarioResult) model.ScenarioResult {
	if r.Cost.Components != nil {
		r.Cost.Components = append([]model.CostComponent(nil), r.Cost.Components...)
	}
	if p := r.Configuration.CompletionRateOverride; p != nil {
		v := *p
		r.Configuration.CompletionRateOverride = &v
	}
	return r
}
