package dataset

import (
	"fmt"

	"milk-bench/connectors/config"
	"milk-bench/domain/kpi"
	"milk-bench/domain/peers"
)

// BuildProviders loads the configured per-group sample sets and registers
// them as substitute peer-value sources.
func BuildProviders(provs []config.Provider, catalog *kpi.Catalog) (*peers.ProviderRegistry, error) {
	registry := peers.NewProviderRegistry()
	for _, p := range provs {
		if p.Group == "" {
			return nil, fmt.Errorf("provider with empty group label")
		}
		rows, err := Load(p.Files)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Group, err)
		}
		registry.Register(p.Group, peers.NewSampleSetProvider(rows, catalog))
	}
	return registry, nil
}
