package dosimetry

import (
	"testing"

	"github.com/microsievert/dosimetria/internal/domain"
)

func participant(name, id, company string, slots ...domain.AssignmentSlot) domain.Participant {
	p := domain.Participant{
		Person:  domain.PersonKey{Name: name, NationalID: id},
		Company: company,
	}
	copy(p.Slots[:], slots)
	return p
}

func TestExpandRosterSkipsEmptySlots(t *testing.T) {
	roster := []domain.Participant{
		participant("ANA PEREZ", "8-123", "ACME",
			domain.AssignmentSlot{DosimeterCode: "wb10", PeriodLabel: "ENERO 2024"},
			domain.AssignmentSlot{DosimeterCode: ""},
			domain.AssignmentSlot{DosimeterCode: "nan"},
			domain.AssignmentSlot{DosimeterCode: "WB11", PeriodLabel: "FEBRERO 2024"},
		),
	}

	assignments := ExpandRoster(roster)

	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}
	if assignments[0].DosimeterCode != "WB10" {
		t.Fatalf("expected uppercased WB10, got %s", assignments[0].DosimeterCode)
	}
	if assignments[1].DosimeterCode != "WB11" {
		t.Fatalf("expected WB11, got %s", assignments[1].DosimeterCode)
	}
}

func TestExpandRosterControlFlag(t *testing.T) {
	roster := []domain.Participant{
		participant("CONTROL", "", "ACME",
			domain.AssignmentSlot{DosimeterCode: "WB01", PeriodLabel: "control..."},
		),
		participant("ANA PEREZ", "8-123", "ACME",
			domain.AssignmentSlot{DosimeterCode: "WB02", PeriodLabel: "ENERO 2024..."},
		),
	}

	assignments := ExpandRoster(roster)

	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}
	if !assignments[0].IsControl {
		t.Fatal("expected control-labeled slot to be flagged")
	}
	if assignments[0].Period != domain.PeriodControl {
		t.Fatalf("expected CONTROL period, got %s", assignments[0].Period)
	}
	if assignments[1].IsControl {
		t.Fatal("expected regular slot to stay unflagged")
	}
	if assignments[1].Period != "ENERO 2024" {
		t.Fatalf("expected trailing dots collapsed, got %q", assignments[1].Period)
	}
}

func TestExpandRosterPreservesOrder(t *testing.T) {
	roster := []domain.Participant{
		participant("A", "1", "X", domain.AssignmentSlot{DosimeterCode: "WB1", PeriodLabel: "P"}),
		participant("B", "2", "X", domain.AssignmentSlot{DosimeterCode: "WB2", PeriodLabel: "P"}),
		participant("C", "3", "X", domain.AssignmentSlot{DosimeterCode: "WB3", PeriodLabel: "P"}),
	}

	assignments := ExpandRoster(roster)

	if len(assignments) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(assignments))
	}
	for i, want := range []string{"WB1", "WB2", "WB3"} {
		if assignments[i].DosimeterCode != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, assignments[i].DosimeterCode)
		}
	}
}
