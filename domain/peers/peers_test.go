package peers

import (
	"testing"

	"milk-bench/domain/sample"
)

func rows() []sample.RawSample {
	return []sample.RawSample{
		{EntityID: "A", KPIName: "cellule", Year: 2023, Month: 10, Value: 300, Province: "PR", GroupID: "caseificio-1"},
		{EntityID: "B", KPIName: "cellule", Year: 2023, Month: 10, Value: 500, Province: "PR", GroupID: "caseificio-1"},
		{EntityID: "C", KPIName: "cellule", Year: 2023, Month: 10, Value: 450, Province: "MO", GroupID: "caseificio-2"},
		{EntityID: "D", KPIName: "cellule", Year: 2023, Month: 10, Value: 420, Province: "MO"},
	}
}

func countByEntity(rs []sample.RawSample) map[string]int {
	m := map[string]int{}
	for _, r := range rs {
		m[r.EntityID]++
	}
	return m
}

func TestSelectNetworkMode(t *testing.T) {
	got := Select(rows(), ModeNetwork, "A", ProvinceAll)
	if len(got) != 4 {
		t.Fatalf("network mode keeps all rows, got %d", len(got))
	}
}

func TestSelectProcessorMode(t *testing.T) {
	got := countByEntity(Select(rows(), ModeProcessor, "A", ProvinceAll))
	if got["A"] != 1 || got["B"] != 1 {
		t.Errorf("processor peers missing: %v", got)
	}
	if got["C"] != 0 || got["D"] != 0 {
		t.Errorf("other groups must be excluded: %v", got)
	}

	// An entity with no group falls back to the full set.
	if got := Select(rows(), ModeProcessor, "D", ProvinceAll); len(got) != 4 {
		t.Errorf("ungrouped target: got %d rows, want 4", len(got))
	}
}

func TestSelectProvinceFilter(t *testing.T) {
	got := countByEntity(Select(rows(), ModeNetwork, "C", "MO"))
	if got["A"] != 0 || got["B"] != 0 {
		t.Errorf("PR rows must be filtered out: %v", got)
	}
	if got["C"] != 1 || got["D"] != 1 {
		t.Errorf("MO rows must stay: %v", got)
	}
}

func TestSelectAlwaysIncludesTargetOnce(t *testing.T) {
	// Province filter excludes the target's rows; they must be re-unioned
	// exactly once.
	got := countByEntity(Select(rows(), ModeNetwork, "A", "MO"))
	if got["A"] != 1 {
		t.Fatalf("target rows = %d, want 1 (re-union without duplicates)", got["A"])
	}

	// Target already inside the filtered set: still exactly once.
	got = countByEntity(Select(rows(), ModeNetwork, "A", "PR"))
	if got["A"] != 1 {
		t.Fatalf("target rows = %d, want 1", got["A"])
	}

	// And the same under combined processor + province filtering.
	got = countByEntity(Select(rows(), ModeProcessor, "A", "MO"))
	if got["A"] != 1 {
		t.Fatalf("target rows = %d, want 1", got["A"])
	}
}

func TestGroupOf(t *testing.T) {
	if g := GroupOf(rows(), "A"); g != "caseificio-1" {
		t.Errorf("GroupOf(A) = %q", g)
	}
	if g := GroupOf(rows(), "D"); g != "" {
		t.Errorf("GroupOf(D) = %q, want empty", g)
	}
}

func TestEntities(t *testing.T) {
	got := Entities(rows())
	want := []string{"A", "B", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("Entities = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Entities = %v, want %v", got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"processor": ModeProcessor,
		" Region ":  ModeRegion,
		"network":   ModeNetwork,
		"":          ModeNetwork,
		"bogus":     ModeNetwork,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
}
