package stats

import (
	"math"
	"sort"
)

const (
	minBins = 6
	maxBins = 15
)

// Bin is one histogram bucket, ready for chart rendering.
type Bin struct {
	Center       float64 `json:"center"`
	From         float64 `json:"from"`
	To           float64 `json:"to"`
	Count        int     `json:"count"`
	FrequencyPct float64 `json:"frequencyPct"` // rounded to one decimal of percent
}

// Histogram describes a binned distribution.
type Histogram struct {
	Edges   []float64 `json:"edges"`   // len = Bins+1
	Centers []float64 `json:"centers"` // len = Bins
	Counts  []int     `json:"counts"`  // len = Bins
	Bins    int       `json:"bins"`
}

// Empty reports whether the histogram was built from no data.
func (h *Histogram) Empty() bool { return h.Bins == 0 }

// BinList expands the histogram into per-bin descriptors with frequency
// percentages.
func (h *Histogram) BinList() []Bin {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	bins := make([]Bin, h.Bins)
	for i := 0; i < h.Bins; i++ {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(h.Counts[i])/float64(total)*1000) / 10
		}
		bins[i] = Bin{
			Center:       h.Centers[i],
			From:         h.Edges[i],
			To:           h.Edges[i+1],
			Count:        h.Counts[i],
			FrequencyPct: pct,
		}
	}
	return bins
}

// ComputeHistogram bins the finite values using the Freedman-Diaconis rule,
// with the bin count clamped into [6, 15].
//
// Degenerate inputs are first-class: no data yields an empty histogram
// (Bins == 0), and a constant sample yields a single synthetic bin
// [v-0.5, v+0.5] so the axis still renders. When the IQR degenerates to
// zero it falls back to (max-min)/4, and to 1 as a last resort.
func ComputeHistogram(values []float64) *Histogram {
	vs := finite(values)
	if len(vs) == 0 {
		return &Histogram{}
	}
	sort.Float64s(vs)
	min, max := vs[0], vs[len(vs)-1]

	if min == max {
		return &Histogram{
			Edges:   []float64{min - 0.5, min + 0.5},
			Centers: []float64{min},
			Counts:  []int{len(vs)},
			Bins:    1,
		}
	}

	bins := freedmanDiaconisBins(vs, min, max)
	edges := make([]float64, bins+1)
	centers := make([]float64, bins)
	counts := make([]int, bins)
	step := (max - min) / float64(bins)
	for i := 0; i <= bins; i++ {
		edges[i] = min + step*float64(i)
	}
	for i := 0; i < bins; i++ {
		centers[i] = min + step*(float64(i)+0.5)
	}
	for _, v := range vs {
		idx := int(math.Floor((v - min) / step))
		// v == max lands one past the last bin; fold it back in.
		if idx < 0 {
			idx = 0
		} else if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	return &Histogram{Edges: edges, Centers: centers, Counts: counts, Bins: bins}
}

// freedmanDiaconisBins chooses the bin count: h = 2*IQR*n^(-1/3),
// bins = ceil((max-min)/h), clamped into [minBins, maxBins].
// Quartiles use the floor positions 0.25*(n-1) and 0.75*(n-1) on the
// sorted sample.
func freedmanDiaconisBins(sorted []float64, min, max float64) int {
	n := len(sorted)
	q1 := sorted[int(math.Floor(0.25*float64(n-1)))]
	q3 := sorted[int(math.Floor(0.75*float64(n-1)))]
	iqr := q3 - q1
	if iqr <= 0 || !isFinite(iqr) {
		iqr = (max - min) / 4
	}
	if iqr <= 0 {
		iqr = 1
	}

	h := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
	bins := int(math.Ceil((max - min) / h))
	if bins < minBins {
		bins = minBins
	}
	if bins > maxBins {
		bins = maxBins
	}
	return bins
}
