package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// expected column order: user, timestamp, hours, project.
const recordFields = 4

// ReadRecords reads raw checkin rows from a CSV file. A header row is
// detected by its first cell and skipped. The timestamp column is kept
// verbatim; normalization happens server-side (or in dry-run).
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	return parseRecords(f)
}

func parseRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = recordFields
	reader.TrimLeadingSpace = true

	var records []Record
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		// Skip a header row
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "user") {
			continue
		}

		hours, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad hours %q: %w", line, row[2], err)
		}

		records = append(records, Record{
			User:      strings.TrimSpace(row[0]),
			Timestamp: row[1],
			Hours:     hours,
			Project:   strings.TrimSpace(row[3]),
		})
	}
	return records, nil
}
