package store

import (
	"context"
	"fmt"

	"github.com/microsievert/dosimetria/internal/domain"
	"github.com/microsievert/dosimetria/internal/pkg/store/xpgx"
)

var participantColumns = []string{
	"name", "national_id", "company",
	"dosimeter_1", "period_1",
	"dosimeter_2", "period_2",
	"dosimeter_3", "period_3",
	"dosimeter_4", "period_4",
	"dosimeter_5", "period_5",
}

type participantRow struct {
	Name       string `db:"name"`
	NationalID string `db:"national_id"`
	Company    string `db:"company"`
	Dosimeter1 string `db:"dosimeter_1"`
	Period1    string `db:"period_1"`
	Dosimeter2 string `db:"dosimeter_2"`
	Period2    string `db:"period_2"`
	Dosimeter3 string `db:"dosimeter_3"`
	Period3    string `db:"period_3"`
	Dosimeter4 string `db:"dosimeter_4"`
	Period4    string `db:"period_4"`
	Dosimeter5 string `db:"dosimeter_5"`
	Period5    string `db:"period_5"`
}

func (r participantRow) toDomain() domain.Participant {
	return domain.Participant{
		Person:  domain.PersonKey{Name: r.Name, NationalID: r.NationalID},
		Company: r.Company,
		Slots: [domain.MaxAssignmentSlots]domain.AssignmentSlot{
			{DosimeterCode: r.Dosimeter1, PeriodLabel: r.Period1},
			{DosimeterCode: r.Dosimeter2, PeriodLabel: r.Period2},
			{DosimeterCode: r.Dosimeter3, PeriodLabel: r.Period3},
			{DosimeterCode: r.Dosimeter4, PeriodLabel: r.Period4},
			{DosimeterCode: r.Dosimeter5, PeriodLabel: r.Period5},
		},
	}
}

// ListParticipants returns the roster in insertion order. The order matters
// downstream: it fixes the legacy positional control fallback.
func (s *Store) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	query := builder().Select(participantColumns...).
		From(tableParticipants).
		OrderBy("id")

	rows, err := xpgx.Select[participantRow](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("select participants: %w", wrapErr(err))
	}

	participants := make([]domain.Participant, 0, len(rows))
	for _, r := range rows {
		participants = append(participants, r.toDomain())
	}
	return participants, nil
}
