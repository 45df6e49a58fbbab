package kpi

import (
	"fmt"
	"strings"

	lo "github.com/samber/lo"
)

// Definition describes one quality indicator tracked per entity per month.
type Definition struct {
	Key       string   `yaml:"key"`       // logical key used by the API ("cellule", "grasso", ...)
	Label     string   `yaml:"label"`     // display label for the dashboard
	Unit      string   `yaml:"unit"`      // display-only unit label
	Aliases   []string `yaml:"aliases"`   // raw label synonyms found in exports (case-insensitive)
	Geometric bool     `yaml:"geometric"` // heavy right-skew KPIs aggregate with the geometric mean
}

// Catalog resolves KPI keys to their alias sets and aggregation mode.
type Catalog struct {
	defs  []Definition
	byKey map[string]Definition
}

// NewCatalog builds a catalog from definitions. Keys must be non-empty and unique.
func NewCatalog(defs []Definition) (*Catalog, error) {
	byKey := make(map[string]Definition, len(defs))
	for _, d := range defs {
		k := strings.ToLower(strings.TrimSpace(d.Key))
		if k == "" {
			return nil, fmt.Errorf("kpi definition with empty key (label %q)", d.Label)
		}
		if _, dup := byKey[k]; dup {
			return nil, fmt.Errorf("duplicate kpi key %q", k)
		}
		d.Key = k
		byKey[k] = d
	}
	return &Catalog{defs: defs, byKey: byKey}, nil
}

// Definitions returns the catalog entries in declaration order.
func (c *Catalog) Definitions() []Definition {
	return c.defs
}

// Lookup returns the definition for a key, if present.
func (c *Catalog) Lookup(key string) (Definition, bool) {
	d, ok := c.byKey[strings.ToLower(strings.TrimSpace(key))]
	return d, ok
}

// Aliases returns the lowercase alias set for a key. The key itself is always
// part of the set; an unknown key falls back to the literal key as its sole
// alias, so raw exports using unlisted indicator names still match.
func (c *Catalog) Aliases(key string) map[string]struct{} {
	k := strings.ToLower(strings.TrimSpace(key))
	set := map[string]struct{}{k: {}}
	if d, ok := c.byKey[k]; ok {
		for _, a := range d.Aliases {
			set[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
		}
	}
	return set
}

// Geometric reports whether the KPI aggregates with the geometric mean.
// Unknown keys default to arithmetic.
func (c *Catalog) Geometric(key string) bool {
	d, ok := c.Lookup(key)
	return ok && d.Geometric
}

// Keys returns the logical keys in declaration order.
func (c *Catalog) Keys() []string {
	return lo.Map(c.defs, func(d Definition, _ int) string { return d.Key })
}

// Default returns the built-in catalog used when the config file does not
// override it. Aliases mirror the raw labels seen in the milk-lab exports.
func Default() *Catalog {
	c, err := NewCatalog([]Definition{
		{Key: "cellule", Label: "Cellule somatiche", Unit: "x1000/ml", Geometric: true,
			Aliases: []string{"cellule somatiche", "scc", "somatic cell count"}},
		{Key: "carica", Label: "Carica batterica", Unit: "ufc x1000/ml", Geometric: true,
			Aliases: []string{"carica batterica", "cbt", "bacterial load"}},
		{Key: "urea", Label: "Urea", Unit: "mg/dl",
			Aliases: []string{"urea latte"}},
		{Key: "grasso", Label: "Grasso", Unit: "%",
			Aliases: []string{"fat", "grasso latte"}},
		{Key: "proteine", Label: "Proteine", Unit: "%",
			Aliases: []string{"protein", "proteine latte"}},
		{Key: "lattosio", Label: "Lattosio", Unit: "%",
			Aliases: []string{"lactose"}},
		{Key: "caseina", Label: "Caseina", Unit: "%",
			Aliases: []string{"casein"}},
	})
	if err != nil {
		panic(err) // built-in definitions are static
	}
	return c
}
