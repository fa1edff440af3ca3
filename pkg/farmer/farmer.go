// Package farmer loads the pre-filled farmer records and answers lookups
// against them.
package farmer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/sirupsen/logrus"
)

// Required CSV columns.
const (
	ColumnID    = "farmerID"
	ColumnName  = "Name"
	ColumnScore = "Khetscore"
)

// Farmer is a farmer taking part in a simulation.
// CurrentScore is mutated once per season and always stays in [0, 100].
type Farmer struct {
	ID           string  `json:"farmerID"`
	Name         string  `json:"name"`
	InitialScore float64 `json:"initialKhetscore"`
	CurrentScore float64 `json:"currentKhetscore"`
}

// Directory is a read-only lookup table of farmers in file order.
type Directory struct {
	farmers []Farmer
	byID    map[string]int
}

// NewDirectory builds a directory from farmers. Duplicate ids keep the first entry.
func NewDirectory(farmers []Farmer) *Directory {
	d := &Directory{byID: make(map[string]int, len(farmers))}
	for _, f := range farmers {
		if _, exists := d.byID[f.ID]; exists {
			logrus.Warnf("duplicate farmer id %s ignored", f.ID)
			continue
		}
		f.CurrentScore = f.InitialScore
		d.byID[f.ID] = len(d.farmers)
		d.farmers = append(d.farmers, f)
	}
	return d
}

// LoadFile reads a farmer CSV file.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open farmer data %s: %w", path, err)
	}
	defer f.Close()

	return LoadCSV(f)
}

// LoadCSV parses farmer records with a header row. The farmerID, Name and
// Khetscore columns are required and extra columns are ignored. Rows with an
// empty id or a score that is not a number in [0, 100] are skipped.
func LoadCSV(r io.Reader) (*Directory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("farmer data is empty")
		}
		return nil, fmt.Errorf("failed to read farmer data header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[h] = i
	}
	for _, name := range []string{ColumnID, ColumnName, ColumnScore} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("farmer data is missing column %s", name)
		}
	}

	var farmers []Farmer
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read farmer data line %d: %w", line, err)
		}

		f, err := parseRecord(record, cols)
		if err != nil {
			logrus.Warnf("skipping farmer data line %d: %v", line, err)
			continue
		}
		farmers = append(farmers, f)
	}

	d := NewDirectory(farmers)
	logrus.Infof("loaded %d farmers", d.Len())
	return d, nil
}

func parseRecord(record []string, cols map[string]int) (Farmer, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id := field(ColumnID)
	if id == "" {
		return Farmer{}, fmt.Errorf("empty %s", ColumnID)
	}

	raw := field(ColumnScore)
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) {
		return Farmer{}, fmt.Errorf("invalid %s %q", ColumnScore, raw)
	}
	if score < 0 || score > 100 {
		return Farmer{}, fmt.Errorf("%s %v outside [0, 100]", ColumnScore, score)
	}

	return Farmer{ID: id, Name: field(ColumnName), InitialScore: score, CurrentScore: score}, nil
}

// Lookup returns a fresh copy of the farmer with the exact id, with the
// current score reset to the initial score.
func (d *Directory) Lookup(id string) (Farmer, error) {
	i, ok := d.byID[id]
	if !ok {
		return Farmer{}, errs.NewNotFound("farmer", id)
	}
	return d.farmers[i], nil
}

// Search returns farmers whose id or name contains q, ignoring case, in
// file order. A blank query matches nothing. limit <= 0 means no limit.
func (d *Directory) Search(q string, limit int) []Farmer {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}

	var matches []Farmer
	for _, f := range d.farmers {
		if strings.Contains(strings.ToLower(f.ID), q) || strings.Contains(strings.ToLower(f.Name), q) {
			matches = append(matches, f)
			if limit > 0 && len(matches) == limit {
				break
			}
		}
	}
	return matches
}

// All returns every farmer in file order.
func (d *Directory) All() []Farmer {
	out := make([]Farmer, len(d.farmers))
	copy(out, d.farmers)
	return out
}

// Len returns the number of farmers.
func (d *Directory) Len() int {
	return len(d.farmers)
}
