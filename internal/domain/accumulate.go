package domain

// DoseSummary is one accumulation level across the three quantities.
type DoseSummary struct {
	Hp10  Value `json:"hp10"`
	Hp007 Value `json:"hp007"`
	Hp3   Value `json:"hp3"`
}

// PersonAccumulate is the aggregation output row for one person. Display
// metadata comes from the person's most recent record.
type PersonAccumulate struct {
	Person        PersonKey `json:"person"`
	Company       string    `json:"company"`
	DosimeterCode string    `json:"dosimeter_code"`
	DosimeterType string    `json:"dosimeter_type"`
	ReadingDate   string    `json:"reading_date"`

	Actual   DoseSummary `json:"actual"`
	Annual   DoseSummary `json:"annual"`
	Lifetime DoseSummary `json:"lifetime"`
}

// AccumulationUpdate carries computed totals back onto one historical record.
type AccumulationUpdate struct {
	RecordID string      `json:"record_id"`
	Actual   DoseSummary `json:"actual"`
	Annual   DoseSummary `json:"annual"`
	Lifetime DoseSummary `json:"lifetime"`
}
