// Copyright 2025 RAGDocs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrieval

import (
	"strings"
	"sync"

	"github.com/kejr2/RAGDocs/core"
)

// queryCache memoizes evidence sets per query and scope. Eviction is
// least-frequently-used: when full, the entry with the fewest reads
// since insertion goes first.
type queryCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[core.ID]*cacheEntry
}

type cacheEntry struct {
	evidence core.EvidenceSet
	reads    int
}

func newQueryCache(maxEntries int) *queryCache {
	return &queryCache{
		maxEntries: maxEntries,
		entries:    make(map[core.ID]*cacheEntry, maxEntries),
	}
}

// cacheKey derives the cache identity of a query: its trimmed,
// lowercased text plus the document scope.
func cacheKey(query core.Query) core.ID {
	normalized := strings.ToLower(strings.TrimSpace(query.Text))
	scope := "all"
	if query.DocId != 0 {
		scope = query.DocId.String()
	}
	return core.IDFromContent([]byte(normalized + ":" + scope))
}

// Get returns a copy of the cached evidence for the key, if present.
func (c *queryCache) Get(key core.ID) (*core.EvidenceSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry.reads++

	// Copy so callers cannot mutate the cached hits.
	evidence := entry.evidence
	evidence.Hits = make([]core.ScoredHit, len(entry.evidence.Hits))
	copy(evidence.Hits, entry.evidence.Hits)
	return &evidence, true
}

// Put stores evidence under the key, evicting the least-read entry when
// the cache is full.
func (c *queryCache) Put(key core.ID, evidence *core.EvidenceSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	stored := *evidence
	stored.Hits = make([]core.ScoredHit, len(evidence.Hits))
	copy(stored.Hits, evidence.Hits)
	c.entries[key] = &cacheEntry{evidence: stored}
}

// Len reports the number of cached entries.
func (c *queryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *queryCache) evictLocked() {
	var victim core.ID
	minReads := -1
	for key, entry := range c.entries {
		if minReads < 0 || entry.reads < minReads {
			minReads = entry.reads
			victim = key
		}
	}
	if minReads >= 0 {
		delete(c.entries, victim)
	}
}
