package cmdreport

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"milk-bench/connectors/config"
	ccsv "milk-bench/connectors/csv"
	"milk-bench/connectors/dataset"
	"milk-bench/domain/bench"
	"milk-bench/domain/kpi"
	"milk-bench/domain/peers"
	"milk-bench/domain/sample"
)

// Run executes the report subcommand: it loads the dataset, computes the
// benchmark view for one entity across every catalog KPI, and writes the
// CSV outputs under -out.
func Run(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	entity := fs.String("entity", "", "Target entity identifier (required)")
	mode := fs.String("mode", "network", "Peer-group mode: network|processor|region")
	province := fs.String("province", "", "Province filter (empty = all)")
	lactations := fs.Int("lactations", bench.DefaultLactations, "Number of lactation cycles to report")
	files := fs.String("files", "", "Comma-separated sample files (overrides config dataset.files)")
	out := fs.String("out", "./data", "Output directory for CSV files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *entity == "" {
		slog.Error("report.validation.error", "reason", "missing entity")
		return fmt.Errorf("missing required -entity")
	}

	catalog, rows, registry, err := loadInputs(*files)
	if err != nil {
		return err
	}

	slog.Info("report.start", "entity", *entity, "mode", *mode, "rows", len(rows))

	engine := bench.NewEngine(catalog, registry)
	count := 0
	for _, key := range catalog.Keys() {
		vm := engine.ComputeDashboardView(rows, bench.Request{
			KPI:      key,
			EntityID: *entity,
			Mode:     peers.ParseMode(*mode),
			Province: *province,
			Period:   bench.Period{Lactations: *lactations},
		})
		if err := ccsv.WriteAllCSVs(*out, vm); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		count++
	}

	slog.Info("report.done", "kpis", count, "out", *out)
	return nil
}

// loadInputs resolves config, catalog, dataset rows and peer-value
// providers. fileOverride, when set, replaces the configured dataset files.
func loadInputs(fileOverride string) (*kpi.Catalog, []sample.RawSample, *peers.ProviderRegistry, error) {
	cfg, err := config.Load(config.Path())
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, nil, err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, nil, nil, err
	}

	var paths []string
	if fileOverride != "" {
		for _, p := range strings.Split(fileOverride, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
	} else {
		paths = cfg.Dataset.Files
	}
	if len(paths) == 0 {
		return nil, nil, nil, fmt.Errorf("no dataset files: set -files or dataset.files in config")
	}

	rows, err := dataset.Load(paths)
	if err != nil {
		return nil, nil, nil, err
	}
	registry, err := dataset.BuildProviders(cfg.Providers, catalog)
	if err != nil {
		return nil, nil, nil, err
	}
	return catalog, rows, registry, nil
}
