package sample

import (
	"math"
	"sort"
)

type monthKey struct {
	entityID string
	year     int
	month    int
}

// Aggregate collapses canonical records into one value per
// (entity, year, month) key. useGeometric selects exp(mean(ln(v))) over the
// strictly positive values of the group instead of the arithmetic mean;
// cell counts and bacterial loads are right-skewed and benchmark on the
// geometric mean. A group left without usable values contributes no row.
func Aggregate(records []CanonicalRecord, useGeometric bool) []MonthlyAggregate {
	groups := make(map[monthKey][]float64)
	for _, r := range records {
		k := monthKey{r.EntityID, r.Year, r.Month}
		groups[k] = append(groups[k], r.Value)
	}

	out := make([]MonthlyAggregate, 0, len(groups))
	for k, values := range groups {
		v, ok := meanOf(values, useGeometric)
		if !ok {
			continue
		}
		out = append(out, MonthlyAggregate{EntityID: k.entityID, Year: k.year, Month: k.month, Value: v})
	}

	// Map iteration order is random; keep output deterministic.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return out
}

func meanOf(values []float64, geometric bool) (float64, bool) {
	if geometric {
		sum, n := 0.0, 0
		for _, v := range values {
			if isFinite(v) && v > 0 {
				sum += math.Log(v)
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return math.Exp(sum / float64(n)), true
	}

	sum, n := 0.0, 0
	for _, v := range values {
		if isFinite(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
