package bench

import (
	"testing"

	"milk-bench/domain/sample"
)

func TestBuildIndex(t *testing.T) {
	aggs := []sample.MonthlyAggregate{
		{EntityID: "A", Year: 2023, Month: 9, Value: 300},
		{EntityID: "B", Year: 2023, Month: 9, Value: 500},
		{EntityID: "A", Year: 2023, Month: 10, Value: 350},
	}
	ix := BuildIndex(aggs)

	g, ok := ix.Month(2023, 9)
	if !ok {
		t.Fatal("october group missing")
	}
	if len(g.ValuesByEntity) != 2 || g.ValuesByEntity["A"] != 300 || g.ValuesByEntity["B"] != 500 {
		t.Errorf("october group = %+v", g.ValuesByEntity)
	}
	if vs := g.Values(); len(vs) != 2 {
		t.Errorf("Values() = %v", vs)
	}

	if _, ok := ix.Month(2023, 11); ok {
		t.Error("december group must not exist")
	}
	if len(ix.Months()) != 2 {
		t.Errorf("Months() = %d groups, want 2", len(ix.Months()))
	}
}

func TestCacheKeying(t *testing.T) {
	c := NewCache()
	builds := 0
	build := func() *Index {
		builds++
		return BuildIndex(nil)
	}

	c.GetOrBuild("cellule", "A", "network||last:3", build)
	c.GetOrBuild("cellule", "A", "network||last:3", build)
	if builds != 1 {
		t.Fatalf("builds = %d, want 1 (second call hits the cache)", builds)
	}

	// Any parameter change is a different key: no stale reuse.
	c.GetOrBuild("grasso", "A", "network||last:3", build)
	c.GetOrBuild("cellule", "B", "network||last:3", build)
	c.GetOrBuild("cellule", "A", "processor||last:3", build)
	if builds != 4 {
		t.Fatalf("builds = %d, want 4", builds)
	}

	c.Invalidate("cellule", "A", "network||last:3")
	c.GetOrBuild("cellule", "A", "network||last:3", build)
	if builds != 5 {
		t.Fatalf("builds = %d, want 5 after Invalidate", builds)
	}

	c.InvalidateAll()
	c.GetOrBuild("grasso", "A", "network||last:3", build)
	if builds != 6 {
		t.Fatalf("builds = %d, want 6 after InvalidateAll", builds)
	}
}
