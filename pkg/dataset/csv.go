package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// csvHeader is the column layout emitted by the measurement harness.
var csvHeader = []string{"Resolution", "Threads", "Time_seconds", "Speedup_vs_1thread", "Efficiency"}

// ReadCSV parses measurement rows. The header must name Resolution,
// Threads and Time_seconds (case-insensitive); Speedup_vs_1thread and
// Efficiency are optional and come back NaN when absent, to be derived
// during aggregation.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	need := func(name string) (int, error) {
		i, ok := col[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrHeader, name)
		}
		return i, nil
	}

	resCol, err := need("resolution")
	if err != nil {
		return nil, err
	}
	thrCol, err := need("threads")
	if err != nil {
		return nil, err
	}
	timeCol, err := need("time_seconds")
	if err != nil {
		return nil, err
	}
	speedCol, hasSpeed := col["speedup_vs_1thread"]
	effCol, hasEff := col["efficiency"]

	var out []Record
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		row++

		var rec Record
		rec.Resolution, err = parseFloat(fields, resCol)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d resolution: %w", row, err)
		}
		rec.Threads, err = parseInt(fields, thrCol)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d threads: %w", row, err)
		}
		rec.Time, err = parseFloat(fields, timeCol)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d time: %w", row, err)
		}

		rec.Speedup = math.NaN()
		if hasSpeed {
			if v, err := parseFloat(fields, speedCol); err == nil {
				rec.Speedup = v
			}
		}
		rec.Efficiency = math.NaN()
		if hasEff {
			if v, err := parseFloat(fields, effCol); err == nil {
				rec.Efficiency = v
			}
		}

		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}

// WriteCSV writes records in the canonical harness layout. NaN ratio
// columns become empty cells.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}
	for _, rec := range records {
		fields := []string{
			strconv.FormatFloat(rec.Resolution, 'g', -1, 64),
			strconv.Itoa(rec.Threads),
			strconv.FormatFloat(rec.Time, 'g', -1, 64),
			formatRatio(rec.Speedup),
			formatRatio(rec.Efficiency),
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("dataset: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseFloat(fields []string, i int) (float64, error) {
	if i >= len(fields) {
		return 0, fmt.Errorf("column %d out of range", i)
	}
	return strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
}

func parseInt(fields []string, i int) (int, error) {
	if i >= len(fields) {
		return 0, fmt.Errorf("column %d out of range", i)
	}
	return strconv.Atoi(strings.TrimSpace(fields[i]))
}

func formatRatio(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
