// Package dataset loads the raw sample JSON exports. Exports are flat
// object arrays whose field names drift between sources (English API dumps
// vs Italian lab exports), so decoding maps known synonyms onto the
// canonical RawSample shape and leaves data-quality filtering to the
// normalizer.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"milk-bench/domain/sample"
)

// Load reads one or more chunked JSON files and concatenates their rows in
// order, the way the dashboard consumes multi-part exports.
func Load(paths []string) ([]sample.RawSample, error) {
	var all []sample.RawSample
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		rows, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		all = append(all, rows...)
	}
	slog.Info("dataset.loaded", "files", len(paths), "rows", len(all))
	return all, nil
}

// Decode parses a JSON array of flat sample objects.
func Decode(r io.Reader) ([]sample.RawSample, error) {
	var objs []map[string]any
	if err := json.NewDecoder(r).Decode(&objs); err != nil {
		return nil, err
	}
	rows := make([]sample.RawSample, 0, len(objs))
	for _, obj := range objs {
		rows = append(rows, decodeRow(obj))
	}
	return rows, nil
}

// Field synonyms, lower-cased. First match wins.
var (
	entityKeys   = []string{"entityid", "azienda", "codiceazienda", "allevamento"}
	kpiKeys      = []string{"kpiname", "kpi", "analita", "parametro"}
	yearKeys     = []string{"year", "anno"}
	monthKeys    = []string{"month", "mese"}
	dateKeys     = []string{"date", "data"}
	valueKeys    = []string{"value", "valore"}
	provinceKeys = []string{"province", "provincia"}
	groupKeys    = []string{"groupid", "caseificio", "gruppo"}
)

func decodeRow(obj map[string]any) sample.RawSample {
	fields := make(map[string]any, len(obj))
	for k, v := range obj {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	row := sample.RawSample{
		EntityID: stringField(fields, entityKeys),
		KPIName:  stringField(fields, kpiKeys),
		Year:     intField(fields, yearKeys),
		Month:    intField(fields, monthKeys),
		Value:    floatField(fields, valueKeys),
		Province: stringField(fields, provinceKeys),
		GroupID:  stringField(fields, groupKeys),
	}
	if s := stringField(fields, dateKeys); s != "" {
		if t, ok := parseDate(s); ok {
			row.Date = &t
		}
	}
	return row
}

func firstPresent(fields map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]any, keys []string) string {
	v, ok := firstPresent(fields, keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func intField(fields map[string]any, keys []string) int {
	v, ok := firstPresent(fields, keys)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// floatField returns NaN when the value is missing or unparseable; the
// normalizer drops non-finite values and counts them.
func floatField(fields map[string]any, keys []string) float64 {
	v, ok := firstPresent(fields, keys)
	if !ok {
		return math.NaN()
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		// Italian exports use the comma decimal separator.
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "02/01/2006"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
