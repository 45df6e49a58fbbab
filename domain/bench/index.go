// Package bench assembles the dashboard view models: it runs the
// normalize -> aggregate -> rank/bin pipeline over a peer group and caches
// the intermediate year-month index.
package bench

import (
	"fmt"
	"sync"

	"milk-bench/domain/sample"
)

// MonthGroup holds the aggregated values of one calendar month, keyed by
// entity.
type MonthGroup struct {
	Year           int
	Month          int // 0-11
	ValuesByEntity map[string]float64
}

// Values returns the month's aggregated values in unspecified order.
func (g *MonthGroup) Values() []float64 {
	out := make([]float64, 0, len(g.ValuesByEntity))
	for _, v := range g.ValuesByEntity {
		out = append(out, v)
	}
	return out
}

// Index maps "year-month" keys to per-entity aggregated values. Built once
// per KPI selection and reused across the cycles of one view.
type Index struct {
	months map[string]*MonthGroup
}

// BuildIndex groups monthly aggregates by calendar month.
func BuildIndex(aggs []sample.MonthlyAggregate) *Index {
	ix := &Index{months: make(map[string]*MonthGroup)}
	for _, a := range aggs {
		k := monthKey(a.Year, a.Month)
		g, ok := ix.months[k]
		if !ok {
			g = &MonthGroup{Year: a.Year, Month: a.Month, ValuesByEntity: make(map[string]float64)}
			ix.months[k] = g
		}
		g.ValuesByEntity[a.EntityID] = a.Value
	}
	return ix
}

// Month returns the group for a calendar (year, month 0-11), if any entity
// reported in it.
func (ix *Index) Month(year, month0 int) (*MonthGroup, bool) {
	g, ok := ix.months[monthKey(year, month0)]
	return g, ok
}

// Months returns every populated month group in unspecified order.
func (ix *Index) Months() []*MonthGroup {
	out := make([]*MonthGroup, 0, len(ix.months))
	for _, g := range ix.months {
		out = append(out, g)
	}
	return out
}

func monthKey(year, month0 int) string {
	return fmt.Sprintf("%d-%d", year, month0)
}

type cacheKey struct {
	kpi             string
	entityID        string
	filterSignature string
}

// Cache memoizes year-month indexes per (kpi, entity, filter signature).
// It is owned by the caller: the core never invalidates it on its own, so
// callers MUST call Invalidate (or use a fresh signature) whenever the
// active KPI, the target entity, or the peer-group filter changes —
// anything else serves stale data. Safe for concurrent handlers.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*Index
}

// NewCache returns an empty index cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*Index)}
}

// GetOrBuild returns the cached index for the key, building and storing it
// on a miss.
func (c *Cache) GetOrBuild(kpi, entityID, filterSignature string, build func() *Index) *Index {
	k := cacheKey{kpi, entityID, filterSignature}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ix, ok := c.entries[k]; ok {
		return ix
	}
	ix := build()
	c.entries[k] = ix
	return ix
}

// Invalidate drops the entry for one (kpi, entity, filter signature) key.
func (c *Cache) Invalidate(kpi, entityID, filterSignature string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{kpi, entityID, filterSignature})
}

// InvalidateAll drops every cached index, e.g. after a dataset reload.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*Index)
}
