// Copyright 2025 Assetdesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
)

// DecisionCacheConfig holds decision cache configuration.
type DecisionCacheConfig struct {
	MaxBytes int           // maximum bytes for fastcache, default 16MB
	TTL      time.Duration // per-entry time to live, default 5 minutes
}

// DecisionCache is a process-local, generation-versioned TTL cache built on
// VictoriaMetrics fastcache. Every stored key is prefixed with the current
// generation; Bump makes every entry written under an older generation
// unreachable, so an administrative mutation invalidates the whole cache
// without scanning it.
type DecisionCache struct {
	cache *fastcache.Cache
	ttls  sync.Map // full key -> time.Time expiry
	gen   atomic.Uint64
	ttl   time.Duration
	mu    sync.RWMutex
}

// NewDecisionCache creates a new DecisionCache instance.
func NewDecisionCache(conf DecisionCacheConfig) *DecisionCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	ttl := conf.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DecisionCache{
		cache: fastcache.New(maxBytes),
		ttl:   ttl,
	}
}

// Get loads the value stored under key into out. It returns false when the
// key is absent, expired, or written under a previous generation.
func (dc *DecisionCache) Get(key string, out any) bool {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	full := dc.fullKey(key)
	if exp, ok := dc.ttls.Load(full); ok {
		if time.Now().After(exp.(time.Time)) {
			return false
		}
	}

	value := dc.cache.Get(nil, []byte(full))
	if value == nil {
		return false
	}
	if err := sonic.Unmarshal(value, out); err != nil {
		return false
	}
	return true
}

// Set stores the value under key for the configured TTL.
func (dc *DecisionCache) Set(key string, value any) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	data, err := sonic.Marshal(value)
	if err != nil {
		return
	}
	full := dc.fullKey(key)
	dc.cache.Set([]byte(full), data)
	dc.ttls.Store(full, time.Now().Add(dc.ttl))
}

// Bump advances the generation counter. Entries written before the bump are
// stale immediately; fastcache evicts their bytes under memory pressure.
func (dc *DecisionCache) Bump() {
	dc.gen.Add(1)
}

// Generation returns the current cache generation.
func (dc *DecisionCache) Generation() uint64 {
	return dc.gen.Load()
}

// Clear drops every entry and resets TTL bookkeeping.
func (dc *DecisionCache) Clear() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.cache.Reset()
	dc.ttls.Range(func(k, _ any) bool {
		dc.ttls.Delete(k)
		return true
	})
}

func (dc *DecisionCache) fullKey(key string) string {
	return fmt.Sprintf("g%d:%s", dc.gen.Load(), key)
}
