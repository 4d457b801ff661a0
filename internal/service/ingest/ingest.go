// Package ingest turns uploaded delimited-text files into free-form rows.
// It is deliberately dumb: column interpretation belongs to the reading
// normalizer, not here.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseDelimited reads a delimited file into rows keyed by the header line.
// Instrument exports commonly use ';'; a header that yields a single column
// is re-parsed with ','.
func ParseDelimited(r io.Reader) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	rows, err := parseWith(data, ';')
	if err == nil && headerWidth(rows) > 1 {
		return rows, nil
	}

	rows2, err2 := parseWith(data, ',')
	if err2 != nil {
		if err != nil {
			return nil, fmt.Errorf("parse delimited file: %w", err)
		}
		return rows, nil
	}
	if headerWidth(rows2) > headerWidth(rows) {
		return rows2, nil
	}
	return rows, nil
}

func headerWidth(rows []map[string]string) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0])
}

func parseWith(data []byte, delimiter rune) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := all[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]map[string]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
