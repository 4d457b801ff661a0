package dosimetry

import (
	"github.com/shopspring/decimal"

	"github.com/microsievert/dosimetria/internal/domain"
)

// pmThreshold is the boundary of the below-minimum-detectable rule. Deltas
// strictly under it report as PM, small negatives from instrument noise
// included.
var pmThreshold = decimal.NewFromFloat(0.005)

// ApplyControlBaseline subtracts the control (background) baseline from every
// non-control record of a batch and applies the PM rule per quantity.
//
// The control record is the first one flagged IsControl; batches without a
// flagged record fall back to the legacy positional convention (first record
// is the control). The batch is returned control-first. The control record
// keeps its own raw values — they are only rounded for display — and its
// person name is forced to "CONTROL".
//
// Batches of zero or one record are returned unchanged: there is no baseline
// to subtract against, or only the control exists.
func ApplyControlBaseline(records []domain.DoseRecord) []domain.DoseRecord {
	if len(records) < 2 {
		return records
	}

	controlIdx := 0
	for i, r := range records {
		if r.IsControl {
			controlIdx = i
			break
		}
	}
	if controlIdx != 0 {
		control := records[controlIdx]
		records = append(records[:controlIdx], records[controlIdx+1:]...)
		records = append([]domain.DoseRecord{control}, records...)
	}

	base10 := records[0].Hp10.Dose()
	base07 := records[0].Hp007.Dose()
	base3 := records[0].Hp3.Dose()

	records[0].PersonName = domain.ControlName
	records[0].Period = domain.PeriodControl
	records[0].IsControl = true

	for i := range records[1:] {
		r := &records[i+1]
		r.Hp10 = subtractBaseline(r.Hp10.Dose(), base10)
		r.Hp007 = subtractBaseline(r.Hp007.Dose(), base07)
		r.Hp3 = subtractBaseline(r.Hp3.Dose(), base3)
	}

	return records
}

func subtractBaseline(value, base decimal.Decimal) domain.Value {
	diff := value.Sub(base)
	if diff.Cmp(pmThreshold) < 0 {
		return domain.PM()
	}
	return domain.Numeric(diff.Round(2))
}
