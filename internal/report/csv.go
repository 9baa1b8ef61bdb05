package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/skystatuspro/skystatus-sub006/internal/models"
)

// CSVWriter writes the deduped flights and bonus events to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the report to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, r *models.StatementReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, r)
}

// Write writes the report in CSV format to the given writer. Flights come
// first, then bonus events, each with their own column header row.
func (w *CSVWriter) Write(out io.Writer, r *models.StatementReport) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Metadata as comment rows
	if w.IncludeHeader {
		if r.Header.HasStatus {
			writer.Write([]string{"# Status", string(r.Header.Status)})
		}
		if r.Header.MemberNumber != "" {
			writer.Write([]string{"# Member Number", r.Header.MemberNumber})
		}
		if r.Header.MemberName != "" {
			writer.Write([]string{"# Member Name", r.Header.MemberName})
		}
		if r.Header.HasBalances {
			writer.Write([]string{"# Miles Balance", strconv.Itoa(r.Header.MilesBalance)})
			writer.Write([]string{"# XP Balance", strconv.Itoa(r.Header.XPBalance)})
			writer.Write([]string{"# UXP Balance", strconv.Itoa(r.Header.UXPBalance)})
		}
	}

	header := []string{"Date", "Place", "Flight Number", "Source", "Miles", "XP", "UXP"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, f := range r.DedupedFlights {
		row := []string{
			f.Date,
			f.Place(),
			f.FlightNumber,
			string(f.Source),
			strconv.Itoa(f.Miles),
			strconv.Itoa(f.XP),
			strconv.Itoa(f.UXP),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	if len(r.BonusEvents) > 0 {
		if err := writer.Write([]string{"Date", "Bonus Category", "", "", "", "XP", ""}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, b := range r.BonusEvents {
			row := []string{b.Date, string(b.Category), "", "", "", strconv.Itoa(b.XP), ""}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	return nil
}
