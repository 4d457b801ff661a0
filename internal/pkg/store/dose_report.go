package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/microsievert/dosimetria/internal/domain"
	"github.com/microsievert/dosimetria/internal/pkg/store/xpgx"
)

// insertChunkSize mirrors the hosted record API's batch size so both
// backends exhibit the same partial-success granularity.
const insertChunkSize = 400

var doseReportColumns = []string{
	"id", "period", "company", "dosimeter_code", "person_name",
	"national_id", "reading_date", "dosimeter_type",
	"hp10", "hp007", "hp3",
}

// Dose columns hold the display form, "PM" or a 2-decimal number, so the
// sentinel survives a round trip through the database unchanged.
type doseReportRow struct {
	ID            string `db:"id"`
	Period        string `db:"period"`
	Company       string `db:"company"`
	DosimeterCode string `db:"dosimeter_code"`
	PersonName    string `db:"person_name"`
	NationalID    string `db:"national_id"`
	ReadingDate   string `db:"reading_date"`
	DosimeterType string `db:"dosimeter_type"`
	Hp10          string `db:"hp10"`
	Hp007         string `db:"hp007"`
	Hp3           string `db:"hp3"`
}

func (r doseReportRow) toDomain() domain.DoseRecord {
	rec := domain.DoseRecord{
		ID:            r.ID,
		Period:        r.Period,
		Company:       r.Company,
		DosimeterCode: r.DosimeterCode,
		PersonName:    r.PersonName,
		NationalID:    r.NationalID,
		ReadingDate:   r.ReadingDate,
		DosimeterType: r.DosimeterType,
		Hp10:          domain.ParseValue(r.Hp10),
		Hp007:         domain.ParseValue(r.Hp007),
		Hp3:           domain.ParseValue(r.Hp3),
	}
	rec.IsControl = rec.PersonName == domain.ControlName || rec.Period == domain.PeriodControl
	return rec
}

// ListDoseRecords returns the full report history in insertion order, ids
// included so the accumulation pass can write totals back per row.
func (s *Store) ListDoseRecords(ctx context.Context) ([]domain.DoseRecord, error) {
	query := builder().Select(doseReportColumns...).
		From(tableDoseReports).
		OrderBy("created_at", "id")

	rows, err := xpgx.Select[doseReportRow](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("select dose reports: %w", wrapErr(err))
	}

	records := make([]domain.DoseRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toDomain())
	}
	return records, nil
}

// InsertDoseRecords persists a processed batch in chunks. A failed chunk
// halts submission; the result keeps the count inserted so far.
func (s *Store) InsertDoseRecords(ctx context.Context, records []domain.DoseRecord) (domain.InsertResult, error) {
	res := domain.InsertResult{Total: len(records)}
	if len(records) == 0 {
		return res, nil
	}

	for start := 0; start < len(records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(records) {
			end = len(records)
		}

		query := builder().Insert(tableDoseReports).Columns(doseReportColumns...)
		for _, r := range records[start:end] {
			query = query.Values(
				uuid.New().String(), r.Period, r.Company, r.DosimeterCode,
				r.PersonName, r.NationalID, r.ReadingDate, r.DosimeterType,
				r.Hp10.String(), r.Hp007.String(), r.Hp3.String(),
			)
		}

		if _, err := s.pool.Execx(ctx, query); err != nil {
			return res, fmt.Errorf("insert dose reports at %d: %w", start, wrapErr(err))
		}
		res.Inserted += end - start
	}

	return res, nil
}

// UpdateAccumulations writes the computed totals back onto each history row
// by id, halting on the first failed update.
func (s *Store) UpdateAccumulations(ctx context.Context, updates []domain.AccumulationUpdate) (domain.UpdateResult, error) {
	res := domain.UpdateResult{Total: len(updates)}

	for _, u := range updates {
		query := builder().Update(tableDoseReports).
			Set("hp10_actual", u.Actual.Hp10.String()).
			Set("hp007_actual", u.Actual.Hp007.String()).
			Set("hp3_actual", u.Actual.Hp3.String()).
			Set("hp10_annual", u.Annual.Hp10.String()).
			Set("hp007_annual", u.Annual.Hp007.String()).
			Set("hp3_annual", u.Annual.Hp3.String()).
			Set("hp10_lifetime", u.Lifetime.Hp10.String()).
			Set("hp007_lifetime", u.Lifetime.Hp007.String()).
			Set("hp3_lifetime", u.Lifetime.Hp3.String()).
			Where("id = ?", u.RecordID)

		if _, err := s.pool.Execx(ctx, query); err != nil {
			return res, fmt.Errorf("update dose report %s: %w", u.RecordID, wrapErr(err))
		}
		res.Updated++
	}

	return res, nil
}
