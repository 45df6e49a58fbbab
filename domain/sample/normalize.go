package sample

import (
	"log/slog"
	"math"
	"strings"

	"milk-bench/domain/kpi"
)

// Normalize converts raw rows into canonical records for one KPI.
//
// A row matches when its lower-cased KPI name is in the catalog's alias set
// for kpiKey (unknown keys fall back to the literal key as sole alias).
// Explicit year/month fields win over the date field when both are present.
// Rows with a non-finite value or an invalid derived year/month are dropped
// silently: heterogeneous lab exports are expected to contain noise. The
// dropped count is logged for diagnostics, never surfaced as an error.
func Normalize(raw []RawSample, kpiKey string, catalog *kpi.Catalog) []CanonicalRecord {
	aliases := catalog.Aliases(kpiKey)

	out := make([]CanonicalRecord, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if _, ok := aliases[strings.ToLower(strings.TrimSpace(r.KPIName))]; !ok {
			continue
		}
		year, month0, ok := calendarOf(r)
		if !ok || !isFinite(r.Value) || r.EntityID == "" {
			dropped++
			continue
		}
		out = append(out, CanonicalRecord{
			EntityID: r.EntityID,
			Year:     year,
			Month:    month0,
			Value:    r.Value,
		})
	}
	if dropped > 0 {
		slog.Debug("normalize.dropped", "kpi", kpiKey, "rows", dropped)
	}
	return out
}

// calendarOf derives (year, month 0-11) from a raw row, preferring the
// explicit year/month fields over the date field.
func calendarOf(r RawSample) (int, int, bool) {
	if r.Year != 0 && r.Month >= 1 && r.Month <= 12 {
		return r.Year, r.Month - 1, true
	}
	if r.Date != nil {
		return r.Date.Year(), int(r.Date.Month()) - 1, true
	}
	return 0, 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
