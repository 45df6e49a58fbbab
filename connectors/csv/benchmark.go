package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"milk-bench/domain/bench"
	"milk-bench/domain/lactation"
)

// WriteAllCSVs writes the benchmark and histogram outputs of one view
// model into dir, one file pair per KPI.
func WriteAllCSVs(dir string, vm *bench.ViewModel) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := WriteBenchmarkCSV(filepath.Join(dir, fmt.Sprintf("benchmark_%s.csv", vm.KPI.Key)), vm); err != nil {
		return err
	}
	return WriteHistogramCSV(filepath.Join(dir, fmt.Sprintf("histogram_%s.csv", vm.KPI.Key)), vm)
}

// WriteBenchmarkCSV writes the per-cycle monthly series: entity value, peer
// median and percentile rank per cycle position. Empty cells mark months
// without data.
func WriteBenchmarkCSV(path string, vm *bench.ViewModel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"kpi", "lactation", "position", "year", "month", "entity_value", "peer_median", "percentile_rank"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, cycle := range vm.Cycles {
		for idx := 0; idx < 12; idx++ {
			year, month0 := lactation.Position{StartYear: cycle.StartYear, Index: idx}.Calendar()
			row := []string{
				vm.KPI.Key,
				cycle.Label,
				strconv.Itoa(idx),
				strconv.Itoa(year),
				strconv.Itoa(month0 + 1),
				formatFloat(cycle.EntityValues[idx]),
				formatFloat(cycle.PeerMedians[idx]),
				formatInt(cycle.PercentileRanks[idx]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// WriteHistogramCSV writes the peer distribution of the view's reference
// month, one row per bin.
func WriteHistogramCSV(path string, vm *bench.ViewModel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"kpi", "from", "to", "center", "count", "frequency_pct"}); err != nil {
		return err
	}
	for _, b := range vm.Histogram {
		row := []string{
			vm.KPI.Key,
			strconv.FormatFloat(b.From, 'f', -1, 64),
			strconv.FormatFloat(b.To, 'f', -1, 64),
			strconv.FormatFloat(b.Center, 'f', -1, 64),
			strconv.Itoa(b.Count),
			strconv.FormatFloat(b.FrequencyPct, 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
