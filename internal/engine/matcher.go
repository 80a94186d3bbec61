package engine

import "math"

// DefaultMatchThreshold is the maximum Euclidean distance for a descriptor
// to count as the same person. Matches the face-api.js convention.
const DefaultMatchThreshold = 0.6

// Candidate is one enrolled descriptor considered during matching.
type Candidate struct {
	EmployeeID string
	Descriptor Descriptor
}

// MatchResult is a successful nearest-neighbor match.
type MatchResult struct {
	EmployeeID string
	Distance   float64
}

// MatchStats carries per-call matching diagnostics.
type MatchStats struct {
	Candidates         int
	InvalidDescriptors int
}

// DescriptorMatcher finds the enrolled identity closest to a probe.
// Implementations must be safe for concurrent use against a read-only
// candidate snapshot.
type DescriptorMatcher interface {
	Match(probe Descriptor, candidates []Candidate) (*MatchResult, MatchStats)
}

// Matcher is the brute-force Euclidean nearest-neighbor matcher. O(n*D) per
// probe, which is fine for organizations up to low thousands of employees;
// IndexedMatcher is the scaling path beyond that.
type Matcher struct {
	dim       int
	threshold float64
}

// NewMatcher creates a matcher for descriptors of the given dimensionality.
// A non-positive threshold falls back to DefaultMatchThreshold.
func NewMatcher(dim int, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Matcher{dim: dim, threshold: threshold}
}

// EuclideanDistance computes the L2 distance between two vectors of equal
// length.
func EuclideanDistance(a, b Descriptor) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Match scans every candidate and returns the one with minimum distance if
// that minimum is strictly below the threshold, nil otherwise. Candidates
// whose descriptor dimensionality does not match the probe are skipped and
// counted in the stats rather than failing the whole match. Ties keep the
// candidate appearing earliest in the input ordering, so callers must supply
// candidates in a deterministic order.
func (m *Matcher) Match(probe Descriptor, candidates []Candidate) (*MatchResult, MatchStats) {
	stats := MatchStats{Candidates: len(candidates)}

	var best *MatchResult
	for i := range candidates {
		c := &candidates[i]
		if len(c.Descriptor) != len(probe) {
			stats.InvalidDescriptors++
			continue
		}

		dist := EuclideanDistance(probe, c.Descriptor)
		if best == nil || dist < best.Distance {
			best = &MatchResult{EmployeeID: c.EmployeeID, Distance: dist}
		}
	}

	if best == nil || best.Distance >= m.threshold {
		return nil, stats
	}
	return best, stats
}

// Threshold returns the configured match threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Dim returns the expected descriptor dimensionality.
func (m *Matcher) Dim() int { return m.dim }
