package dosimetry

import (
	"strings"
	"time"

	"github.com/microsievert/dosimetria/internal/domain"
)

// AggregateOptions selects the current period and narrows the history before
// aggregation. The zero value of every field means "no filtering".
type AggregateOptions struct {
	// CurrentPeriod is the reporting period for the ACTUAL horizon.
	CurrentPeriod string

	// Year pins the ANNUAL calendar year. When zero, the year is derived
	// from the latest reading date within the current period.
	Year int

	// PriorPeriods switches ANNUAL to the explicit variant: the sum over
	// the current period plus exactly these labels. Leave nil for the
	// preferred same-calendar-year rule.
	PriorPeriods []string

	// DosimeterCodes restricts history to an allow-list of codes.
	DosimeterCodes []string

	Company       string
	DosimeterType string

	// IncludeControl re-inserts the control person at the top of the output.
	IncludeControl bool
}

// Aggregate computes the ACTUAL / ANNUAL / LIFETIME accumulations per person
// from the full record history. It is a pure function of its inputs: no
// state survives between calls.
func Aggregate(history []domain.DoseRecord, opts AggregateOptions) []domain.PersonAccumulate {
	filtered := filterHistory(history, opts)

	var personRows, controlRows []domain.DoseRecord
	for _, r := range filtered {
		if r.IsControl || strings.EqualFold(strings.TrimSpace(r.PersonName), domain.ControlName) {
			controlRows = append(controlRows, r)
			continue
		}
		personRows = append(personRows, r)
	}

	targetYear := opts.Year
	if targetYear == 0 && opts.PriorPeriods == nil {
		targetYear = resolveTargetYear(personRows, opts.CurrentPeriod)
	}

	annualPeriods := map[string]bool{}
	if opts.PriorPeriods != nil {
		annualPeriods[normalizePeriod(opts.CurrentPeriod)] = true
		for _, p := range opts.PriorPeriods {
			annualPeriods[normalizePeriod(p)] = true
		}
	}

	groups := make(map[domain.PersonKey][]domain.DoseRecord)
	var order []domain.PersonKey
	for _, r := range personRows {
		key := r.Person()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]domain.PersonAccumulate, 0, len(order)+1)
	if opts.IncludeControl && len(controlRows) > 0 {
		acc := accumulatePerson(domain.PersonKey{Name: domain.ControlName}, controlRows, opts.CurrentPeriod, targetYear, annualPeriods)
		out = append(out, acc)
	}
	for _, key := range order {
		out = append(out, accumulatePerson(key, groups[key], opts.CurrentPeriod, targetYear, annualPeriods))
	}

	return out
}

func filterHistory(history []domain.DoseRecord, opts AggregateOptions) []domain.DoseRecord {
	var codes map[string]bool
	if len(opts.DosimeterCodes) > 0 {
		codes = make(map[string]bool, len(opts.DosimeterCodes))
		for _, c := range opts.DosimeterCodes {
			codes[strings.ToUpper(strings.TrimSpace(c))] = true
		}
	}

	out := make([]domain.DoseRecord, 0, len(history))
	for _, r := range history {
		if codes != nil && !codes[strings.ToUpper(strings.TrimSpace(r.DosimeterCode))] {
			continue
		}
		if opts.Company != "" && !strings.EqualFold(strings.TrimSpace(r.Company), strings.TrimSpace(opts.Company)) {
			continue
		}
		if opts.DosimeterType != "" && !strings.EqualFold(strings.TrimSpace(r.DosimeterType), strings.TrimSpace(opts.DosimeterType)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// resolveTargetYear finds the calendar year of the latest reading date within
// the current period. The current year is the fallback when the period has
// no dated records.
func resolveTargetYear(records []domain.DoseRecord, currentPeriod string) int {
	var latest *time.Time
	for _, r := range records {
		if !periodsEqual(r.Period, currentPeriod) {
			continue
		}
		t := parseReadingDate(r.ReadingDate)
		if t == nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}
	if latest == nil {
		return time.Now().Year()
	}
	return latest.Year()
}

func accumulatePerson(key domain.PersonKey, records []domain.DoseRecord, currentPeriod string, targetYear int, annualPeriods map[string]bool) domain.PersonAccumulate {
	var actual, annual, lifetime []domain.DoseRecord
	for _, r := range records {
		lifetime = append(lifetime, r)
		if periodsEqual(r.Period, currentPeriod) {
			actual = append(actual, r)
		}
		if len(annualPeriods) > 0 {
			if annualPeriods[normalizePeriod(r.Period)] {
				annual = append(annual, r)
			}
		} else if t := parseReadingDate(r.ReadingDate); t != nil && t.Year() == targetYear {
			annual = append(annual, r)
		}
	}

	acc := domain.PersonAccumulate{
		Person:   key,
		Actual:   summarize(actual),
		Annual:   summarize(annual),
		Lifetime: summarize(lifetime),
	}

	if latest := latestRecord(records); latest != nil {
		acc.Company = latest.Company
		acc.DosimeterCode = latest.DosimeterCode
		acc.DosimeterType = latest.DosimeterType
		acc.ReadingDate = latest.ReadingDate
	}

	return acc
}

func summarize(records []domain.DoseRecord) domain.DoseSummary {
	hp10 := make([]domain.Value, 0, len(records))
	hp007 := make([]domain.Value, 0, len(records))
	hp3 := make([]domain.Value, 0, len(records))
	for _, r := range records {
		hp10 = append(hp10, r.Hp10)
		hp007 = append(hp007, r.Hp007)
		hp3 = append(hp3, r.Hp3)
	}
	return domain.DoseSummary{
		Hp10:  domain.SumValues(hp10),
		Hp007: domain.SumValues(hp007),
		Hp3:   domain.SumValues(hp3),
	}
}

// latestRecord picks the record with the most recent parseable reading date;
// undated records lose to dated ones, later list position breaks ties.
func latestRecord(records []domain.DoseRecord) *domain.DoseRecord {
	if len(records) == 0 {
		return nil
	}
	best := 0
	var bestTime time.Time
	if t := parseReadingDate(records[0].ReadingDate); t != nil {
		bestTime = *t
	}
	for i := 1; i < len(records); i++ {
		var ts time.Time
		if t := parseReadingDate(records[i].ReadingDate); t != nil {
			ts = *t
		}
		if !ts.Before(bestTime) {
			best = i
			bestTime = ts
		}
	}
	return &records[best]
}

func normalizePeriod(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}

func periodsEqual(a, b string) bool {
	return normalizePeriod(a) == normalizePeriod(b)
}
