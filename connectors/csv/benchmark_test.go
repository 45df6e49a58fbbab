package csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"milk-bench/domain/bench"
	"milk-bench/domain/kpi"
	"milk-bench/domain/stats"
)

func testView() *bench.ViewModel {
	value := 300.0
	median := 400.0
	rank := 25
	cycle := bench.CycleSeries{StartYear: 2023, Label: "2023-24"}
	cycle.EntityValues[0] = &value
	cycle.PeerMedians[0] = &median
	cycle.PercentileRanks[0] = &rank
	return &bench.ViewModel{
		KPI:      kpi.Definition{Key: "cellule"},
		EntityID: "A",
		Cycles:   []bench.CycleSeries{cycle},
		Histogram: []stats.Bin{
			{Center: 350, From: 300, To: 400, Count: 2, FrequencyPct: 66.7},
			{Center: 450, From: 400, To: 500, Count: 1, FrequencyPct: 33.3},
		},
	}
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestWriteBenchmarkCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark_cellule.csv")
	if err := WriteBenchmarkCSV(path, testView()); err != nil {
		t.Fatal(err)
	}

	records := readAll(t, path)
	if len(records) != 13 { // header + 12 cycle positions
		t.Fatalf("rows = %d, want 13", len(records))
	}
	if records[0][1] != "lactation" {
		t.Errorf("header = %v", records[0])
	}
	// Position 0 is October of the start year.
	oct := records[1]
	if oct[1] != "2023-24" || oct[3] != "2023" || oct[4] != "10" {
		t.Errorf("october row = %v", oct)
	}
	if oct[5] != "300" || oct[6] != "400" || oct[7] != "25" {
		t.Errorf("october values = %v", oct)
	}
	// Position 3 is January of the following year; empty cells for no data.
	jan := records[4]
	if jan[3] != "2024" || jan[4] != "1" || jan[5] != "" || jan[7] != "" {
		t.Errorf("january row = %v", jan)
	}
}

func TestWriteHistogramCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histogram_cellule.csv")
	if err := WriteHistogramCSV(path, testView()); err != nil {
		t.Fatal(err)
	}

	records := readAll(t, path)
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2 bins", len(records))
	}
	if records[1][4] != "2" || records[1][5] != "66.7" {
		t.Errorf("bin row = %v", records[1])
	}
}

func TestWriteAllCSVs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := WriteAllCSVs(dir, testView()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"benchmark_cellule.csv", "histogram_cellule.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
