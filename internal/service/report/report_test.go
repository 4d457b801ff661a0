package report

import (
	"strings"
	"testing"
	"time"

	"github.com/microsievert/dosimetria/internal/domain"
)

func TestRenderBatchCSV(t *testing.T) {
	records := []domain.DoseRecord{
		{
			Period: "CONTROL", Company: "ACME", DosimeterCode: "WB01",
			PersonName: "CONTROL", ReadingDate: "15/03/2024 10:30",
			DosimeterType: "CE",
			Hp10:          domain.NumericFloat(0.10),
			Hp007:         domain.NumericFloat(0.10),
			Hp3:           domain.NumericFloat(0.10),
			IsControl:     true,
		},
		{
			Period: "MARZO 2024", Company: "ACME", DosimeterCode: "WB02",
			PersonName: "ANA PEREZ", NationalID: "8-123",
			ReadingDate:   "15/03/2024 10:31",
			DosimeterType: "CE",
			Hp10:          domain.NumericFloat(0.20),
			Hp007:         domain.PM(),
			Hp3:           domain.PM(),
		},
	}

	out, err := RenderBatchCSV(records, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected preamble, header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Fecha de emisión: 20/03/2024" {
		t.Fatalf("unexpected emission line: %s", lines[0])
	}
	if !strings.HasPrefix(lines[2], "CONTROL;ACME;WB01;CONTROL") {
		t.Fatalf("expected control row first, got %s", lines[2])
	}
	if !strings.Contains(lines[3], ";0.20;PM;PM") {
		t.Fatalf("expected PM sentinel rendered as text, got %s", lines[3])
	}
}

func TestRenderAccumulationsCSV(t *testing.T) {
	accumulates := []domain.PersonAccumulate{
		{
			Person:        domain.PersonKey{Name: "ANA PEREZ", NationalID: "8-123"},
			Company:       "ACME",
			DosimeterCode: "WB02",
			DosimeterType: "CE",
			ReadingDate:   "15/03/2024 10:31",
			Actual:        domain.DoseSummary{Hp10: domain.PM(), Hp007: domain.PM(), Hp3: domain.PM()},
			Annual:        domain.DoseSummary{Hp10: domain.NumericFloat(0.30), Hp007: domain.NumericFloat(0.15), Hp3: domain.NumericFloat(0.10)},
			Lifetime:      domain.DoseSummary{Hp10: domain.NumericFloat(1.20), Hp007: domain.NumericFloat(0.80), Hp3: domain.NumericFloat(0.60)},
		},
	}

	out, err := RenderAccumulationsCSV(accumulates, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[2], "COMPAÑÍA;") {
		t.Fatalf("unexpected header: %s", lines[2])
	}
	row := lines[3]
	if !strings.Contains(row, "PM;PM;PM;0.30;0.15;0.10;1.20;0.80;0.60") {
		t.Fatalf("unexpected accumulation row: %s", row)
	}
}
