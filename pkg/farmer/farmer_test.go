package farmer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
)

const sampleCSV = `farmerID,Name,Khetscore,Village
F001,Ramesh Kumar,50,Barasat
F002,Sita Devi,72.5,Habra
F003,Anil Das,not-a-number,Habra
,Nameless,40,
F004,Gita Roy,101,Basirhat
F005,Rameshwar Pal,0,Basirhat
F001,Duplicate,10,
`

func TestLoadCSV(t *testing.T) {
	d, err := LoadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	if d.Len() != 3 {
		t.Fatalf("expected 3 valid farmers, got %d", d.Len())
	}

	f, err := d.Lookup("F002")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if f.Name != "Sita Devi" || f.InitialScore != 72.5 || f.CurrentScore != 72.5 {
		t.Errorf("unexpected farmer: %+v", f)
	}

	first, _ := d.Lookup("F001")
	if first.Name != "Ramesh Kumar" {
		t.Errorf("duplicate id should keep first row, got %s", first.Name)
	}
}

func TestLoadCSV_BOMAndSpaces(t *testing.T) {
	d, err := LoadCSV(strings.NewReader("\ufefffarmerID, Name, Khetscore\nF9, Asha , 33.3\n"))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	f, err := d.Lookup("F9")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if f.Name != "Asha" || f.InitialScore != 33.3 {
		t.Errorf("unexpected farmer: %+v", f)
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "missing score column", input: "farmerID,Name\nF1,A\n"},
		{name: "missing id column", input: "id,Name,Khetscore\nF1,A,10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	d := NewDirectory([]Farmer{{ID: "F1", Name: "A", InitialScore: 10}})

	_, err := d.Lookup("f1")
	if !errs.IsNotFound(err) {
		t.Errorf("expected NotFoundError for case-different id, got %v", err)
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	d := NewDirectory([]Farmer{{ID: "F1", Name: "A", InitialScore: 10}})

	f, _ := d.Lookup("F1")
	f.CurrentScore = 99

	again, _ := d.Lookup("F1")
	if again.CurrentScore != 10 {
		t.Errorf("directory entry was mutated: %+v", again)
	}
}

func TestSearch(t *testing.T) {
	d, err := LoadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	tests := []struct {
		name     string
		query    string
		limit    int
		expected []string
	}{
		{name: "by name substring", query: "ramesh", expected: []string{"F001", "F005"}},
		{name: "by id", query: "f002", expected: []string{"F002"}},
		{name: "limit", query: "f00", limit: 2, expected: []string{"F001", "F002"}},
		{name: "blank", query: "  ", expected: nil},
		{name: "no match", query: "zzz", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Search(tt.query, tt.limit)
			if len(got) != len(tt.expected) {
				t.Fatalf("Search(%q) returned %d farmers, expected %d", tt.query, len(got), len(tt.expected))
			}
			for i, f := range got {
				if f.ID != tt.expected[i] {
					t.Errorf("Search(%q)[%d] = %s, expected %s", tt.query, i, f.ID, tt.expected[i])
				}
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farmers.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}

	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if d.Len() != 3 {
		t.Errorf("expected 3 farmers, got %d", d.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
