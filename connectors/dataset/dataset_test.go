package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeEnglishFields(t *testing.T) {
	in := `[
		{"entityId":"A","kpiName":"cellule","year":2023,"month":10,"value":300,"province":"PR","groupId":"caseificio-1"},
		{"entityId":"B","kpiName":"cellule","date":"2023-10-15","value":500}
	]`
	rows, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].EntityID != "A" || rows[0].Year != 2023 || rows[0].Month != 10 || rows[0].Value != 300 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].Province != "PR" || rows[0].GroupID != "caseificio-1" {
		t.Errorf("row 0 optionals = %+v", rows[0])
	}
	if rows[1].Date == nil || rows[1].Date.Year() != 2023 {
		t.Errorf("row 1 date = %v", rows[1].Date)
	}
}

func TestDecodeItalianFields(t *testing.T) {
	in := `[
		{"Azienda":"IT123","KPI":"Cellule Somatiche","Anno":2023,"Mese":10,"Valore":"312,5","Provincia":"PR","Caseificio":"Consorzio X"},
		{"Azienda":"IT124","KPI":"Grasso","Data":"15/10/2023","Valore":3.8}
	]`
	rows, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].EntityID != "IT123" || rows[0].KPIName != "Cellule Somatiche" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].Value != 312.5 {
		t.Errorf("comma decimal: value = %v, want 312.5", rows[0].Value)
	}
	if rows[0].GroupID != "Consorzio X" || rows[0].Province != "PR" {
		t.Errorf("row 0 optionals = %+v", rows[0])
	}
	if rows[1].Date == nil || rows[1].Date.Month() != 10 {
		t.Errorf("dd/mm/yyyy date = %v", rows[1].Date)
	}
}

func TestDecodeBadValuesBecomeNaN(t *testing.T) {
	in := `[
		{"Azienda":"A","KPI":"urea","Anno":2023,"Mese":1,"Valore":"n.d."},
		{"Azienda":"B","KPI":"urea","Anno":2023,"Mese":1}
	]`
	rows, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range rows {
		if !math.IsNaN(r.Value) {
			t.Errorf("row %d value = %v, want NaN (normalizer drops it later)", i, r.Value)
		}
	}
}

func TestLoadConcatenatesChunks(t *testing.T) {
	dir := t.TempDir()
	chunk1 := filepath.Join(dir, "samples_000.json")
	chunk2 := filepath.Join(dir, "samples_001.json")
	if err := os.WriteFile(chunk1, []byte(`[{"entityId":"A","kpiName":"urea","year":2023,"month":1,"value":22}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(chunk2, []byte(`[{"entityId":"B","kpiName":"urea","year":2023,"month":1,"value":25}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := Load([]string{chunk1, chunk2})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].EntityID != "A" || rows[1].EntityID != "B" {
		t.Fatalf("rows = %+v", rows)
	}

	if _, err := Load([]string{filepath.Join(dir, "missing.json")}); err == nil {
		t.Error("missing file must error")
	}
}
