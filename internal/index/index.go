// Package index provides an in-memory vector index over document units
// with metadata-filtered cosine-similarity search.
package index

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/dgallion1/finsight/internal/segment"
)

// Filter is a conjunction of exact-match predicates over unit metadata.
// An entry missing a filtered key never matches (the filter fails
// closed).
type Filter map[string]string

// Match pairs a stored unit with its similarity to the query vector.
type Match struct {
	Unit  segment.Unit
	Score float64
}

// Index stores (unit, vector) pairs for the process lifetime. Batch
// appends are atomic with respect to concurrent readers; searches run
// against a consistent snapshot under the read lock. Re-adding a unit
// with an existing ID appends a duplicate entry; the index imposes no
// uniqueness invariant.
type Index struct {
	mu      sync.RWMutex
	units   []segment.Unit
	vectors [][]float64
}

func New() *Index { return &Index{} }

// Add appends a batch of entries. The batch is visible to readers all
// at once or not at all.
func (ix *Index) Add(units []segment.Unit, vectors [][]float64) error {
	if len(units) != len(vectors) {
		return fmt.Errorf("units and vectors length mismatch: %d != %d", len(units), len(vectors))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("empty vector for unit %s", units[i].ID)
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.units = append(ix.units, units...)
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Search returns up to topK entries ordered by descending cosine
// similarity, ties broken by insertion order. An empty index yields an
// empty result, never an error.
func (ix *Index) Search(vector []float64, topK int, filter Filter) []Match {
	if topK <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	// Candidates keep insertion order, which makes the stable sort's
	// tie-breaking deterministic.
	var matches []Match
	for i, u := range ix.units {
		if !filter.matches(u.Metadata) {
			continue
		}
		matches = append(matches, Match{Unit: u, Score: cosine(vector, ix.vectors[i])})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.units)
}

// Entities returns the sorted distinct entity values present.
func (ix *Index) Entities() []string {
	return ix.distinct(segment.KeyEntity)
}

// Periods returns the sorted distinct period values present.
func (ix *Index) Periods() []string {
	return ix.distinct(segment.KeyPeriod)
}

// Clear removes all entries.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.units = nil
	ix.vectors = nil
}

func (ix *Index) distinct(key string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	seen := make(map[string]bool)
	for _, u := range ix.units {
		if v, ok := u.Metadata[key]; ok && v != "" {
			seen[v] = true
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func (f Filter) matches(md map[string]string) bool {
	for key, want := range f {
		got, ok := md[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
