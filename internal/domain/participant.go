package domain

// MaxAssignmentSlots is the number of dosimeter assignment slots per roster entry.
const MaxAssignmentSlots = 5

// PersonKey identifies a monitored person. Uniqueness is not enforced by the
// record store, so all aggregation keys on the compound value.
type PersonKey struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
}

// AssignmentSlot is one (dosimeter, nominal period) pair on a roster entry.
// A slot with an empty code is inert.
type AssignmentSlot struct {
	DosimeterCode string `json:"dosimeter_code"`
	PeriodLabel   string `json:"period_label"`
}

// Participant is one roster entry as fetched from the record store.
type Participant struct {
	Person  PersonKey                         `json:"person"`
	Company string                            `json:"company"`
	Slots   [MaxAssignmentSlots]AssignmentSlot `json:"slots"`
}

// Assignment is one expanded roster triple, in roster order. IsControl is
// resolved once here, during roster expansion, rather than inferred from
// output position.
type Assignment struct {
	Person        PersonKey `json:"person"`
	Company       string    `json:"company"`
	DosimeterCode string    `json:"dosimeter_code"`
	Period        string    `json:"period"`
	IsControl     bool      `json:"is_control"`
}
