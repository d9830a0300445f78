package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader yields header-keyed records.
type Reader interface {
	Read() ([]map[string]string, error)
}

type CSVReader struct {
	reader io.Reader
}

func NewCSVReader(reader io.Reader) *CSVReader {
	return &CSVReader{
		reader: reader,
	}
}

// Read loads every row keyed by the header. Headers and values are trimmed,
// rows with no non-empty value are skipped and short rows leave the missing
// columns empty.
func (cr *CSVReader) Read() ([]map[string]string, error) {
	csvReader := csv.NewReader(cr.reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []map[string]string
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		record := make(map[string]string, len(headers))
		empty := true
		for i, h := range headers {
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v != "" {
				empty = false
			}
			record[h] = v
		}
		if empty {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
