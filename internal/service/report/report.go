// Package report renders engine output as flat delimited tables. It is
// presentation-only and imposes nothing back on the engine.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/microsievert/dosimetria/internal/domain"
)

var batchHeaders = []string{
	"PERIODO DE LECTURA", "COMPAÑÍA", "CÓDIGO DE DOSÍMETRO", "NOMBRE",
	"CÉDULA", "FECHA DE LECTURA", "TIPO DE DOSÍMETRO",
	"Hp(10)", "Hp(0.07)", "Hp(3)",
}

var accumulationHeaders = []string{
	"COMPAÑÍA", "CÓDIGO DE DOSÍMETRO", "NOMBRE", "CÉDULA",
	"FECHA DE LECTURA", "TIPO DE DOSÍMETRO",
	"Hp(10) ACTUAL", "Hp(0.07) ACTUAL", "Hp(3) ACTUAL",
	"Hp(10) ANUAL", "Hp(0.07) ANUAL", "Hp(3) ANUAL",
	"Hp(10) DE POR VIDA", "Hp(0.07) DE POR VIDA", "Hp(3) DE POR VIDA",
}

// RenderBatchCSV renders a processed record batch, control row first, with
// the emission date and report title above the header row.
func RenderBatchCSV(records []domain.DoseRecord, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := writePreamble(w, now); err != nil {
		return nil, err
	}
	if err := w.Write(batchHeaders); err != nil {
		return nil, err
	}

	for _, r := range records {
		row := []string{
			r.Period, r.Company, r.DosimeterCode, r.PersonName,
			r.NationalID, r.ReadingDate, r.DosimeterType,
			r.Hp10.String(), r.Hp007.String(), r.Hp3.String(),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// RenderAccumulationsCSV renders the per-person accumulation table in the
// fixed 3×3 column layout.
func RenderAccumulationsCSV(accumulates []domain.PersonAccumulate, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := writePreamble(w, now); err != nil {
		return nil, err
	}
	if err := w.Write(accumulationHeaders); err != nil {
		return nil, err
	}

	for _, a := range accumulates {
		row := []string{
			a.Company, a.DosimeterCode, a.Person.Name, a.Person.NationalID,
			a.ReadingDate, a.DosimeterType,
			a.Actual.Hp10.String(), a.Actual.Hp007.String(), a.Actual.Hp3.String(),
			a.Annual.Hp10.String(), a.Annual.Hp007.String(), a.Annual.Hp3.String(),
			a.Lifetime.Hp10.String(), a.Lifetime.Hp007.String(), a.Lifetime.Hp3.String(),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func writePreamble(w *csv.Writer, now time.Time) error {
	if err := w.Write([]string{fmt.Sprintf("Fecha de emisión: %s", now.Format("02/01/2006"))}); err != nil {
		return err
	}
	return w.Write([]string{"REPORTE DE DOSIMETRÍA"})
}
