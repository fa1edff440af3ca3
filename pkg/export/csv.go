// Package export renders saved simulations as CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/service"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
)

// PracticeSeparator joins practice names within one season cell.
const PracticeSeparator = "; "

// Header returns the column names of the export.
func Header() []string {
	header := []string{"Name", "farmerID", "InitialKhetscore"}
	for season := 1; season <= session.Seasons; season++ {
		prefix := fmt.Sprintf("Season%d_", season)
		header = append(header, prefix+"Practices", prefix+"WeatherShock", prefix+"EndScore")
	}
	return header
}

// Row returns the export columns for one simulation. Missing seasons are left blank.
func Row(sim service.Simulation) []string {
	row := []string{sim.Farmer.Name, sim.Farmer.ID, formatScore(sim.Farmer.InitialScore)}

	bySeason := make(map[int]session.SeasonRecord, len(sim.Seasons))
	for _, rec := range sim.Seasons {
		bySeason[rec.Season] = rec
	}
	for season := 1; season <= session.Seasons; season++ {
		rec, ok := bySeason[season]
		if !ok {
			row = append(row, "", "", "")
			continue
		}
		row = append(row,
			strings.Join(rec.Practices, PracticeSeparator),
			rec.WeatherShock,
			formatScore(rec.EndScore),
		)
	}
	return row
}

// WriteSimulations writes the header and one row per simulation to w.
func WriteSimulations(w io.Writer, sims []service.Simulation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, sim := range sims {
		if err := cw.Write(Row(sim)); err != nil {
			return fmt.Errorf("failed to write simulation %s: %w", sim.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SimulationsCSV renders sims as a CSV document.
func SimulationsCSV(sims []service.Simulation) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSimulations(&buf, sims); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the download name for a farmer's export,
// farmer_<id>_simulation_<unix millis>.csv.
func Filename(farmerID string, at time.Time) string {
	return fmt.Sprintf("farmer_%s_simulation_%d.csv", farmerID, at.UnixMilli())
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
