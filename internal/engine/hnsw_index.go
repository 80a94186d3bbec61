package engine

import (
	"hash/fnv"
	"sync"

	"github.com/coder/hnsw"
)

// HNSW parameters for face descriptor search.
const (
	// hnswMaxNeighbors (M) is the maximum number of neighbors per node.
	hnswMaxNeighbors = 16

	// hnswSearchK is the number of nearest candidates fetched per probe.
	// More than 1 so the exact re-check below can recover from approximate
	// ordering near the threshold.
	hnswSearchK = 4
)

// IndexedMatcher is the scaling path for large candidate sets: an HNSW graph
// over enrolled descriptors with an exact Euclidean re-check of the returned
// neighbors. The graph is rebuilt lazily whenever the candidate snapshot
// changes. For small organizations the brute-force Matcher is preferred
// since it guarantees the exact minimum and deterministic tie-breaks.
type IndexedMatcher struct {
	dim       int
	threshold float64

	mu          sync.RWMutex
	graph       *hnsw.Graph[string]
	fingerprint uint64
	invalid     int
	indexed     int
}

// NewIndexedMatcher creates an HNSW-backed matcher for descriptors of the
// given dimensionality.
func NewIndexedMatcher(dim int, threshold float64) *IndexedMatcher {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &IndexedMatcher{dim: dim, threshold: threshold}
}

// snapshotFingerprint hashes candidate identity so the index is only rebuilt
// when the snapshot actually changes.
func snapshotFingerprint(candidates []Candidate) uint64 {
	h := fnv.New64a()
	for i := range candidates {
		h.Write([]byte(candidates[i].EmployeeID))
		h.Write([]byte{0})
	}
	return h.Sum64() ^ uint64(len(candidates))
}

// rebuild constructs a fresh graph from the candidate snapshot. Candidates
// with mismatched dimensionality are skipped and counted, mirroring the
// brute-force matcher.
func (m *IndexedMatcher) rebuild(candidates []Candidate, fingerprint uint64) {
	g := hnsw.NewGraph[string]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance

	invalid := 0
	indexed := 0
	for i := range candidates {
		c := &candidates[i]
		if len(c.Descriptor) != m.dim {
			invalid++
			continue
		}
		g.Add(hnsw.MakeNode(c.EmployeeID, []float32(c.Descriptor)))
		indexed++
	}

	m.graph = g
	m.fingerprint = fingerprint
	m.invalid = invalid
	m.indexed = indexed
}

// Match searches the index for the nearest enrolled descriptor and applies
// the exact threshold check on the returned neighbors.
func (m *IndexedMatcher) Match(probe Descriptor, candidates []Candidate) (*MatchResult, MatchStats) {
	stats := MatchStats{Candidates: len(candidates)}
	if len(probe) != m.dim {
		return nil, stats
	}

	fingerprint := snapshotFingerprint(candidates)

	m.mu.RLock()
	current := m.graph != nil && m.fingerprint == fingerprint
	m.mu.RUnlock()

	if !current {
		m.mu.Lock()
		if m.graph == nil || m.fingerprint != fingerprint {
			m.rebuild(candidates, fingerprint)
		}
		m.mu.Unlock()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	stats.InvalidDescriptors = m.invalid
	if m.indexed == 0 {
		return nil, stats
	}

	neighbors := m.graph.Search([]float32(probe), hnswSearchK)

	var best *MatchResult
	for _, n := range neighbors {
		dist := EuclideanDistance(probe, Descriptor(n.Value))
		if best == nil || dist < best.Distance {
			best = &MatchResult{EmployeeID: n.Key, Distance: dist}
		}
	}

	if best == nil || best.Distance >= m.threshold {
		return nil, stats
	}
	return best, stats
}

// Count returns the number of indexed descriptors.
func (m *IndexedMatcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexed
}
