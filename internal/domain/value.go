package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PMLabel is the sentinel reported when a control-corrected dose is below
// the minimum detectable threshold.
const PMLabel = "PM"

// Value is a dose quantity: either a numeric dose in millisievert or the
// below-minimum-detectable sentinel. The zero value is numeric 0.00.
type Value struct {
	belowDetectable bool
	dose            decimal.Decimal
}

func PM() Value {
	return Value{belowDetectable: true}
}

func Numeric(d decimal.Decimal) Value {
	return Value{dose: d}
}

func NumericFloat(f float64) Value {
	return Value{dose: decimal.NewFromFloat(f)}
}

func (v Value) IsPM() bool {
	return v.belowDetectable
}

// Dose returns the numeric dose. PM values report 0 so that aggregation can
// treat the sentinel as a zero contribution; call IsPM first when the
// distinction matters.
func (v Value) Dose() decimal.Decimal {
	if v.belowDetectable {
		return decimal.Zero
	}
	return v.dose
}

// String renders the display form: "PM" or the dose rounded to 2 decimals.
func (v Value) String() string {
	if v.belowDetectable {
		return PMLabel
	}
	return v.dose.StringFixed(2)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.belowDetectable {
		return []byte(`"PM"`), nil
	}
	return []byte(v.dose.StringFixed(2)), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = Value{}
		return nil
	}
	if b[0] == '"' {
		s := strings.TrimSpace(string(b[1 : len(b)-1]))
		*v = ParseValue(s)
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid dose value %q: %w", string(b), err)
	}
	*v = Numeric(d)
	return nil
}

// ParseValue interprets a raw store field: the "PM" sentinel, a number, a
// numeric string, or anything else (which resolves to numeric 0, per the
// liberal-input policy).
func ParseValue(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Value{}
	case string:
		s := strings.ToUpper(strings.TrimSpace(t))
		if s == PMLabel {
			return PM()
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return Value{}
		}
		return Numeric(d)
	case float64:
		return NumericFloat(t)
	case int:
		return Numeric(decimal.NewFromInt(int64(t)))
	case int64:
		return Numeric(decimal.NewFromInt(t))
	default:
		return ParseValue(fmt.Sprint(t))
	}
}

// SumValues applies the all-or-nothing PM propagation rule: a non-empty set
// whose members are all PM sums to PM; otherwise PM members contribute 0 and
// the result is the numeric sum. An empty set sums to numeric 0.
func SumValues(values []Value) Value {
	if len(values) == 0 {
		return Value{}
	}

	allPM := true
	sum := decimal.Zero
	for _, v := range values {
		if v.IsPM() {
			continue
		}
		allPM = false
		sum = sum.Add(v.Dose())
	}

	if allPM {
		return PM()
	}
	return Numeric(sum)
}
