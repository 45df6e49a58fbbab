// Package stats implements the order-statistics primitives the benchmark
// views are built on: tie-aware percentile rank, median, and the
// Freedman-Diaconis histogram binner.
package stats

import (
	"math"
	"sort"
)

// PercentileRank ranks target against a peer distribution, 0-100.
// Ties receive half credit: rank = round((below + 0.5*ties) / n * 100).
// ok is false when the filtered peer set is empty or target is not finite;
// callers must treat that as "no data", not as rank 0.
func PercentileRank(peerValues []float64, target float64) (int, bool) {
	peers := finite(peerValues)
	if len(peers) == 0 || !isFinite(target) {
		return 0, false
	}
	below, ties := 0, 0
	for _, v := range peers {
		switch {
		case v < target:
			below++
		case v == target:
			ties++
		}
	}
	rank := math.Round((float64(below) + 0.5*float64(ties)) / float64(len(peers)) * 100)
	return int(rank), true
}

// Median returns the middle of the finite values: the central element for
// odd counts, the mean of the two central elements for even counts.
// ok is false when no finite value remains.
func Median(values []float64) (float64, bool) {
	vs := finite(values)
	if len(vs) == 0 {
		return 0, false
	}
	sort.Float64s(vs)
	mid := len(vs) / 2
	if len(vs)%2 == 1 {
		return vs[mid], true
	}
	return (vs[mid-1] + vs[mid]) / 2, true
}

// finite copies the finite values of vs; the input is never mutated.
func finite(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
