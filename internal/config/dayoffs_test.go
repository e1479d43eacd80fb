package config

import "testing"

func TestLoadDayOffs_ParsesDateAndPeriod(t *testing.T) {
	doc := []byte(`
alice@acme.com:
  - date: "2024-03-20"
    period: full
  - date: "2024-03-21"
    period: morning
`)
	offs, err := LoadDayOffs(doc)
	if err != nil {
		t.Fatalf("LoadDayOffs: %v", err)
	}
	if len(offs) != 2 {
		t.Fatalf("offs = %+v, want 2", offs)
	}
	if offs[0].ExecutorEmail != "alice@acme.com" || offs[0].Date.String() != "2024-03-20" {
		t.Errorf("offs[0] = %+v", offs[0])
	}
}

func TestLoadDayOffs_RejectsUnknownPeriod(t *testing.T) {
	doc := []byte(`
alice@acme.com:
  - date: "2024-03-20"
    period: lunch
`)
	if _, err := LoadDayOffs(doc); err == nil {
		t.Fatal("LoadDayOffs: want error for unknown period")
	}
}

func TestLoadDayOffs_RejectsInvalidDate(t *testing.T) {
	doc := []byte(`
alice@acme.com:
  - date: "not-a-date"
    period: full
`)
	if _, err := LoadDayOffs(doc); err == nil {
		t.Fatal("LoadDayOffs: want error for invalid date")
	}
}
