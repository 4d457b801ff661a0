package dosimetry

import (
	"strings"

	"github.com/microsievert/dosimetria/internal/domain"
)

// readingDateDisplay is the display format persisted on dose records.
const readingDateDisplay = "02/01/2006 15:04"

// filterDisabled reports whether the period filter string means "no filter".
func filterDisabled(filter string) bool {
	f := strings.ToUpper(strings.TrimSpace(filter))
	return f == "" || f == "ALL" || f == "TODOS"
}

// MatchReadings joins expanded roster assignments against normalized readings
// by dosimeter code, producing the candidate record batch in roster order.
// When duplicate readings exist for a code, the first occurrence in file
// order wins. Empty inputs produce an empty batch, not an error.
func MatchReadings(assignments []domain.Assignment, readings []domain.RawReading, periodFilter string) []domain.DoseRecord {
	byCode := make(map[string]domain.RawReading, len(readings))
	for _, r := range readings {
		if _, ok := byCode[r.DosimeterCode]; !ok {
			byCode[r.DosimeterCode] = r
		}
	}

	filterActive := !filterDisabled(periodFilter)
	filter := strings.ToUpper(strings.TrimSpace(periodFilter))

	var records []domain.DoseRecord
	for _, a := range assignments {
		if filterActive && !strings.EqualFold(a.Period, filter) {
			continue
		}

		reading, ok := byCode[a.DosimeterCode]
		if !ok {
			continue
		}

		dateStr := ""
		if reading.Timestamp != nil {
			dateStr = reading.Timestamp.Format(readingDateDisplay)
		}

		records = append(records, domain.DoseRecord{
			Period:        ResolvePeriod(a.Period, reading.Timestamp, a.IsControl),
			Company:       a.Company,
			DosimeterCode: a.DosimeterCode,
			PersonName:    a.Person.Name,
			NationalID:    a.Person.NationalID,
			ReadingDate:   dateStr,
			DosimeterType: domain.DefaultDosimeterType,
			Hp10:          domain.NumericFloat(reading.Hp10),
			Hp007:         domain.NumericFloat(reading.Hp007),
			Hp3:           domain.NumericFloat(reading.Hp3),
			IsControl:     a.IsControl,
		})
	}

	return records
}
