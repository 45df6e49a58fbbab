package peers

import (
	"strings"

	"milk-bench/domain/kpi"
	"milk-bench/domain/sample"
)

// ValueProvider supplies the peer values for one KPI month from a source
// other than the per-entity monthly aggregates — typically a pre-filtered
// external sample set. It exists because one well-known aggregator group
// benchmarks against raw supplier samples instead of entity means.
type ValueProvider interface {
	PeerValues(kpiKey string, year, month0 int) []float64
}

// ProviderRegistry maps processor group labels (case-insensitive) to the
// ValueProvider that replaces the default peer source for that group.
type ProviderRegistry struct {
	providers map[string]ValueProvider
}

// NewProviderRegistry returns an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]ValueProvider)}
}

// Register binds a group label to a provider, replacing any previous one.
func (r *ProviderRegistry) Register(groupLabel string, p ValueProvider) {
	r.providers[strings.ToLower(strings.TrimSpace(groupLabel))] = p
}

// Lookup returns the provider registered for a group label, if any.
func (r *ProviderRegistry) Lookup(groupLabel string) (ValueProvider, bool) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(groupLabel))]
	return p, ok
}

// SampleSetProvider is a ValueProvider over a fixed raw sample set: peer
// values for a month are the individual normalized sample values, not
// per-entity means.
type SampleSetProvider struct {
	rows    []sample.RawSample
	catalog *kpi.Catalog
}

// NewSampleSetProvider wraps a pre-filtered sample set.
func NewSampleSetProvider(rows []sample.RawSample, catalog *kpi.Catalog) *SampleSetProvider {
	return &SampleSetProvider{rows: rows, catalog: catalog}
}

// PeerValues returns every normalized sample value for the KPI month.
func (p *SampleSetProvider) PeerValues(kpiKey string, year, month0 int) []float64 {
	var out []float64
	for _, rec := range sample.Normalize(p.rows, kpiKey, p.catalog) {
		if rec.Year == year && rec.Month == month0 {
			out = append(out, rec.Value)
		}
	}
	return out
}
