package stats

import (
	"math"
	"testing"
)

func TestPercentileRank(t *testing.T) {
	cases := []struct {
		name   string
		peers  []float64
		target float64
		want   int
		wantOK bool
	}{
		{"all ties get half credit", []float64{5, 5, 5, 5}, 5, 50, true},
		{"below all", []float64{10, 20, 30}, 5, 0, true},
		{"above all", []float64{10, 20, 30}, 40, 100, true},
		{"one below one tie", []float64{300, 500}, 300, 25, true},
		{"middle", []float64{1, 2, 3, 4}, 3, 63, true}, // (2+0.5)/4*100 = 62.5 -> 63
		{"empty peers", nil, 5, 0, false},
		{"nan target", []float64{1, 2}, math.NaN(), 0, false},
		{"only non-finite peers", []float64{math.Inf(1), math.NaN()}, 5, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := PercentileRank(c.peers, c.target)
			if ok != c.wantOK || got != c.want {
				t.Errorf("PercentileRank(%v, %v) = %d,%v, want %d,%v", c.peers, c.target, got, ok, c.want, c.wantOK)
			}
		})
	}
}

func TestPercentileRankBounds(t *testing.T) {
	peerSets := [][]float64{
		{1}, {1, 1, 1}, {-5, 0, 5}, {0.1, 0.2, 0.3, 0.4, 0.5},
	}
	targets := []float64{-100, -5, 0, 0.25, 1, 100}
	for _, peers := range peerSets {
		for _, target := range targets {
			rank, ok := PercentileRank(peers, target)
			if !ok {
				t.Fatalf("PercentileRank(%v, %v) unexpectedly not ok", peers, target)
			}
			if rank < 0 || rank > 100 {
				t.Errorf("PercentileRank(%v, %v) = %d, out of [0,100]", peers, target, rank)
			}
		}
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
		wantOK bool
	}{
		{"odd", []float64{3, 1, 2}, 2, true},
		{"even", []float64{4, 1, 3, 2}, 2.5, true},
		{"single", []float64{7}, 7, true},
		{"empty", nil, 0, false},
		{"ignores non-finite", []float64{math.NaN(), 1, 3, math.Inf(-1)}, 2, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Median(c.values)
			if ok != c.wantOK || got != c.want {
				t.Errorf("Median(%v) = %v,%v, want %v,%v", c.values, got, ok, c.want, c.wantOK)
			}
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Median reordered its input: %v", values)
	}
}
