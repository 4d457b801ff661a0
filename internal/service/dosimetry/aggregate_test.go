package dosimetry

import (
	"testing"

	"github.com/microsievert/dosimetria/internal/domain"
)

func historyRecord(name, id, period, date string, hp10 string) domain.DoseRecord {
	return domain.DoseRecord{
		PersonName:  name,
		NationalID:  id,
		Period:      period,
		ReadingDate: date,
		Hp10:        domain.ParseValue(hp10),
		Hp007:       domain.ParseValue(hp10),
		Hp3:         domain.ParseValue(hp10),
	}
}

func TestAggregateHorizons(t *testing.T) {
	history := []domain.DoseRecord{
		historyRecord("ANA", "8-123", "ENERO 2023", "15/01/2023 10:00", "0.50"),
		historyRecord("ANA", "8-123", "ENERO 2024", "15/01/2024 10:00", "0.10"),
		historyRecord("ANA", "8-123", "FEBRERO 2024", "15/02/2024 10:00", "0.20"),
	}

	accs := Aggregate(history, AggregateOptions{CurrentPeriod: "FEBRERO 2024"})

	if len(accs) != 1 {
		t.Fatalf("expected 1 person, got %d", len(accs))
	}
	acc := accs[0]

	if got := acc.Actual.Hp10.String(); got != "0.20" {
		t.Fatalf("expected ACTUAL 0.20, got %s", got)
	}
	// ANNUAL covers the current period's calendar year only.
	if got := acc.Annual.Hp10.String(); got != "0.30" {
		t.Fatalf("expected ANNUAL 0.30, got %s", got)
	}
	if got := acc.Lifetime.Hp10.String(); got != "0.80" {
		t.Fatalf("expected LIFETIME 0.80, got %s", got)
	}
}

func TestAggregateExplicitPriorPeriods(t *testing.T) {
	history := []domain.DoseRecord{
		historyRecord("ANA", "8-123", "DICIEMBRE 2023", "15/12/2023 10:00", "0.10"),
		historyRecord("ANA", "8-123", "ENERO 2024", "15/01/2024 10:00", "0.20"),
		historyRecord("ANA", "8-123", "FEBRERO 2024", "15/02/2024 10:00", "0.30"),
	}

	accs := Aggregate(history, AggregateOptions{
		CurrentPeriod: "FEBRERO 2024",
		PriorPeriods:  []string{"DICIEMBRE 2023"},
	})

	// Explicit list overrides the calendar-year rule: ENERO 2024 is excluded.
	if got := accs[0].Annual.Hp10.String(); got != "0.40" {
		t.Fatalf("expected ANNUAL 0.40, got %s", got)
	}
}

func TestAggregatePMPropagation(t *testing.T) {
	history := []domain.DoseRecord{
		historyRecord("ANA", "8-123", "ENERO 2024", "15/01/2024 10:00", "PM"),
		historyRecord("ANA", "8-123", "FEBRERO 2024", "15/02/2024 10:00", "PM"),
	}

	accs := Aggregate(history, AggregateOptions{CurrentPeriod: "FEBRERO 2024"})

	if !accs[0].Lifetime.Hp10.IsPM() {
		t.Fatalf("expected all-PM history to accumulate to PM, got %s", accs[0].Lifetime.Hp10.String())
	}

	history = append(history, historyRecord("ANA", "8-123", "MARZO 2024", "15/03/2024 10:00", "0.15"))
	accs = Aggregate(history, AggregateOptions{CurrentPeriod: "MARZO 2024"})

	if got := accs[0].Lifetime.Hp10.String(); got != "0.15" {
		t.Fatalf("expected numeric record to rescue lifetime, got %s", got)
	}
}

func TestAggregateLifetimeMonotonic(t *testing.T) {
	history := []domain.DoseRecord{
		historyRecord("ANA", "8-123", "ENERO 2023", "15/01/2023 10:00", "0.10"),
	}

	prev := Aggregate(history, AggregateOptions{CurrentPeriod: "ENERO 2023"})[0].Lifetime.Hp10

	additions := []domain.DoseRecord{
		historyRecord("ANA", "8-123", "ENERO 2024", "15/01/2024 10:00", "0.20"),
		historyRecord("ANA", "8-123", "FEBRERO 2024", "15/02/2024 10:00", "0.00"),
		historyRecord("ANA", "8-123", "MARZO 2024", "15/03/2024 10:00", "0.05"),
	}
	for _, add := range additions {
		history = append(history, add)
		cur := Aggregate(history, AggregateOptions{CurrentPeriod: add.Period})[0].Lifetime.Hp10
		if cur.Dose().LessThan(prev.Dose()) {
			t.Fatalf("lifetime decreased: %s -> %s after %s", prev.String(), cur.String(), add.Period)
		}
		prev = cur
	}
}

func TestAggregateExcludesControl(t *testing.T) {
	history := []domain.DoseRecord{
		{PersonName: "CONTROL", Period: "CONTROL", Hp10: domain.NumericFloat(0.10), IsControl: true},
		historyRecord("ANA", "8-123", "ENERO 2024", "15/01/2024 10:00", "0.20"),
	}

	accs := Aggregate(history, AggregateOptions{CurrentPeriod: "ENERO 2024"})
	if len(accs) != 1 || accs[0].Person.Name != "ANA" {
		t.Fatalf("expected control excluded, got %d entries", len(accs))
	}

	accs = Aggregate(history, AggregateOptions{CurrentPeriod: "ENERO 2024", IncludeControl: true})
	if len(accs) != 2 {
		t.Fatalf("expected control re-inserted, got %d entries", len(accs))
	}
	if accs[0].Person.Name != "CONTROL" {
		t.Fatalf("expected control first, got %s", accs[0].Person.Name)
	}
}

func TestAggregateFilters(t *testing.T) {
	history := []domain.DoseRecord{
		{PersonName: "ANA", NationalID: "1", Period: "ENERO 2024", DosimeterCode: "WB1", Company: "ACME", DosimeterType: "CE", Hp10: domain.NumericFloat(0.1)},
		{PersonName: "LUIS", NationalID: "2", Period: "ENERO 2024", DosimeterCode: "WB2", Company: "OTRA", DosimeterType: "CE", Hp10: domain.NumericFloat(0.2)},
	}

	accs := Aggregate(history, AggregateOptions{CurrentPeriod: "ENERO 2024", Company: "acme"})
	if len(accs) != 1 || accs[0].Person.Name != "ANA" {
		t.Fatalf("expected company filter to keep only ANA, got %d", len(accs))
	}

	accs = Aggregate(history, AggregateOptions{CurrentPeriod: "ENERO 2024", DosimeterCodes: []string{"wb2"}})
	if len(accs) != 1 || accs[0].Person.Name != "LUIS" {
		t.Fatalf("expected code allow-list to keep only LUIS, got %d", len(accs))
	}
}

func TestAggregateLatestRecordMetadata(t *testing.T) {
	history := []domain.DoseRecord{
		{PersonName: "ANA", NationalID: "1", Period: "ENERO 2024", DosimeterCode: "WB1", Company: "ACME", ReadingDate: "15/01/2024 10:00", Hp10: domain.NumericFloat(0.1)},
		{PersonName: "ANA", NationalID: "1", Period: "FEBRERO 2024", DosimeterCode: "WB9", Company: "ACME", ReadingDate: "15/02/2024 10:00", Hp10: domain.NumericFloat(0.2)},
	}

	accs := Aggregate(history, AggregateOptions{CurrentPeriod: "FEBRERO 2024"})
	if accs[0].DosimeterCode != "WB9" {
		t.Fatalf("expected metadata from the latest record, got %s", accs[0].DosimeterCode)
	}
	if accs[0].ReadingDate != "15/02/2024 10:00" {
		t.Fatalf("unexpected reading date %s", accs[0].ReadingDate)
	}
}
