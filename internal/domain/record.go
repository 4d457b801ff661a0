package domain

const (
	// PeriodControl is the canonical period token of the control record.
	PeriodControl = "CONTROL"
	// ControlName is the person name forced onto the control record.
	ControlName = "CONTROL"
	// DefaultDosimeterType is the whole-body dosimeter type.
	DefaultDosimeterType = "CE"
)

// DoseRecord is the reportable unit persisted to the record store. After the
// delta calculator has run, the three Hp fields hold control-corrected doses,
// not instrument output.
type DoseRecord struct {
	// ID is the store record id; empty for records not yet persisted.
	ID string `json:"id,omitempty"`

	Period        string `json:"period"`
	Company       string `json:"company"`
	DosimeterCode string `json:"dosimeter_code"`
	PersonName    string `json:"person_name"`
	NationalID    string `json:"national_id"`
	ReadingDate   string `json:"reading_date"`
	DosimeterType string `json:"dosimeter_type"`

	Hp10  Value `json:"hp10"`
	Hp007 Value `json:"hp007"`
	Hp3   Value `json:"hp3"`

	IsControl bool `json:"is_control"`
}

// Person returns the aggregation key of the record.
func (r DoseRecord) Person() PersonKey {
	return PersonKey{Name: r.PersonName, NationalID: r.NationalID}
}

// InsertResult reports partial success of a batched insert.
type InsertResult struct {
	Inserted      int      `json:"inserted"`
	Total         int      `json:"total"`
	SkippedFields []string `json:"skipped_fields,omitempty"`
}

// UpdateResult reports partial success of a batched update.
type UpdateResult struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// ErrorResponse is the JSON error body of the HTTP API.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
