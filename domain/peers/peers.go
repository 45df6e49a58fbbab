// Package peers selects the comparison group a target entity is
// benchmarked against.
package peers

import (
	"strings"

	lo "github.com/samber/lo"

	"milk-bench/domain/sample"
)

// Mode names the benchmark comparison scope.
type Mode string

const (
	// ModeNetwork compares against every entity in the loaded dataset.
	ModeNetwork Mode = "network"
	// ModeProcessor compares against entities delivering to the same
	// processing plant (shared GroupID).
	ModeProcessor Mode = "processor"
	// ModeRegion compares against the regional dataset. Today that is the
	// full row set; region-specific narrowing is an extension point.
	ModeRegion Mode = "region"
)

// ParseMode maps a request string onto a Mode, defaulting to network.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeProcessor:
		return ModeProcessor
	case ModeRegion:
		return ModeRegion
	default:
		return ModeNetwork
	}
}

// ProvinceAll disables the province filter.
const ProvinceAll = ""

// GroupOf resolves the processor identifier of an entity: the GroupID of
// the first row found for it. Empty when the entity has no grouped rows.
func GroupOf(rows []sample.RawSample, entityID string) string {
	row, ok := lo.Find(rows, func(r sample.RawSample) bool {
		return r.EntityID == entityID && r.GroupID != ""
	})
	if !ok {
		return ""
	}
	return row.GroupID
}

// Select returns the rows forming the peer group for targetEntity.
//
// Processor mode restricts to rows sharing the target's GroupID (falling
// back to the full set when the target has none). A non-empty province
// restricts to rows whose province matches exactly. Whatever the filters
// remove, every row belonging to targetEntity is put back: the target is
// always part of its own peer group, exactly once.
func Select(allRows []sample.RawSample, mode Mode, targetEntity, province string) []sample.RawSample {
	working := allRows
	if mode == ModeProcessor {
		if group := GroupOf(allRows, targetEntity); group != "" {
			working = lo.Filter(working, func(r sample.RawSample, _ int) bool {
				return r.GroupID == group
			})
		}
	}
	if province != ProvinceAll {
		working = lo.Filter(working, func(r sample.RawSample, _ int) bool {
			return strings.EqualFold(r.Province, province)
		})
	}

	// Re-union the target's rows: drop whatever of the target survived the
	// filters and append its full unfiltered row set, so filtering can
	// neither exclude nor duplicate it.
	out := lo.Filter(working, func(r sample.RawSample, _ int) bool {
		return r.EntityID != targetEntity
	})
	for _, r := range allRows {
		if r.EntityID == targetEntity {
			out = append(out, r)
		}
	}
	return out
}

// Entities lists the distinct entity identifiers in rows, in first-seen order.
func Entities(rows []sample.RawSample) []string {
	return lo.Uniq(lo.Map(rows, func(r sample.RawSample, _ int) string { return r.EntityID }))
}
