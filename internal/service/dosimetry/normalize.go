package dosimetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/microsievert/dosimetria/internal/domain"
)

// Canonical reading fields.
const (
	fieldDosimeter = "dosimeter"
	fieldHp10      = "hp10"
	fieldHp007     = "hp007"
	fieldHp3       = "hp3"
	fieldTimestamp = "timestamp"
)

// columnSchemaVersion identifies the synonym mapping below. Bump it when a
// new instrument export format is added.
const columnSchemaVersion = 1

// columnSynonyms maps each canonical field to the cleaned column names that
// may carry it in an instrument export. Consulted once per row set,
// independent of the file format.
var columnSynonyms = map[string][]string{
	fieldDosimeter: {"dosimeter", "dosimetro", "codigo", "codigodosimetro", "codigo_dosimetro", "serial", "serialnumber", "wb", "wbcode"},
	fieldHp10:      {"hp10dosecorr", "hp10dose", "hp10"},
	fieldHp007:     {"hp007dosecorr", "hp007dose", "hp007"},
	fieldHp3:       {"hp3dosecorr", "hp3dose", "hp3"},
	fieldTimestamp: {"timestamp", "readdate", "readingdate", "fecha", "fechadelectura", "date"},
}

// synonymIndex inverts columnSynonyms; earlier synonyms win on collision.
var synonymIndex = func() map[string]string {
	idx := make(map[string]string)
	for canonical, names := range columnSynonyms {
		for _, n := range names {
			if _, ok := idx[n]; !ok {
				idx[n] = canonical
			}
		}
	}
	return idx
}()

// cleanColumn canonicalizes a free-form column name the way the instrument
// exports vary: case, surrounding space, inner spaces, parens and dots.
func cleanColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

var readingDateLayouts = []string{
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

func parseReadingDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range readingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseDose(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0.0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return f
}

// NormalizeRow canonicalizes one raw instrument-export row. It is total over
// arbitrary input shapes: missing or unparsable fields resolve to their
// defaults, never to an error.
func NormalizeRow(row map[string]string) domain.RawReading {
	fields := make(map[string]string, len(columnSynonyms))
	for col, val := range row {
		canonical, ok := synonymIndex[cleanColumn(col)]
		if !ok {
			continue
		}
		if _, taken := fields[canonical]; !taken {
			fields[canonical] = val
		}
	}

	return domain.RawReading{
		DosimeterCode: strings.ToUpper(strings.TrimSpace(fields[fieldDosimeter])),
		Hp10:          parseDose(fields[fieldHp10]),
		Hp007:         parseDose(fields[fieldHp007]),
		Hp3:           parseDose(fields[fieldHp3]),
		Timestamp:     parseReadingDate(fields[fieldTimestamp]),
	}
}

// NormalizeRows normalizes a whole row set, discarding rows whose dosimeter
// code is empty after normalization.
func NormalizeRows(rows []map[string]string) []domain.RawReading {
	readings := make([]domain.RawReading, 0, len(rows))
	for _, row := range rows {
		r := NormalizeRow(row)
		if r.DosimeterCode == "" {
			continue
		}
		readings = append(readings, r)
	}
	return readings
}
