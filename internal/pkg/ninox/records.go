package ninox

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/microsievert/dosimetria/internal/domain"
)

// Store field names, first variant preferred on write; the rest tolerate
// databases created without accents.
var (
	colPeriod  = []string{"PERIODO DE LECTURA"}
	colCompany = []string{"COMPAÑÍA", "COMPAÑIA"}
	colCode    = []string{"CÓDIGO DE DOSÍMETRO", "CODIGO DE DOSIMETRO"}
	colName    = []string{"NOMBRE"}
	colSurname = []string{"APELLIDO"}
	colCedula  = []string{"CÉDULA", "CEDULA"}
	colDate    = []string{"FECHA DE LECTURA"}
	colType    = []string{"TIPO DE DOSÍMETRO", "TIPO DE DOSIMETRO"}

	colHp10  = []string{"Hp (10)", "Hp(10)"}
	colHp007 = []string{"Hp (0.07)", "Hp(0.07)"}
	colHp3   = []string{"Hp (3)", "Hp(3)"}

	colHp10Actual    = []string{"Hp (10) ACTUAL"}
	colHp007Actual   = []string{"Hp (0.07) ACTUAL"}
	colHp3Actual     = []string{"Hp (3) ACTUAL"}
	colHp10Annual    = []string{"Hp (10) ANUAL"}
	colHp007Annual   = []string{"Hp (0.07) ANUAL"}
	colHp3Annual     = []string{"Hp (3) ANUAL"}
	colHp10Lifetime  = []string{"Hp (10) DE POR VIDA"}
	colHp007Lifetime = []string{"Hp (0.07) DE POR VIDA"}
	colHp3Lifetime   = []string{"Hp (3) DE POR VIDA"}
)

func fieldString(fields map[string]interface{}, variants ...string) string {
	for _, name := range variants {
		if v, ok := fields[name]; ok && v != nil {
			return strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return ""
}

func fieldValue(fields map[string]interface{}, variants ...string) domain.Value {
	for _, name := range variants {
		if v, ok := fields[name]; ok && v != nil {
			return domain.ParseValue(v)
		}
	}
	return domain.ParseValue(nil)
}

// ListParticipants fetches the roster table and maps it to domain form. The
// person name joins the store's separate first/last name fields.
func (c *Client) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	records, err := c.fetchRecords(ctx, c.cfg.ParticipantsTable)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}

	participants := make([]domain.Participant, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(fieldString(rec.Fields, colName...) + " " + fieldString(rec.Fields, colSurname...))
		p := domain.Participant{
			Person: domain.PersonKey{
				Name:       name,
				NationalID: fieldString(rec.Fields, colCedula...),
			},
			Company: fieldString(rec.Fields, colCompany...),
		}
		for i := 0; i < domain.MaxAssignmentSlots; i++ {
			p.Slots[i] = domain.AssignmentSlot{
				DosimeterCode: fieldString(rec.Fields,
					fmt.Sprintf("DOSIMETRO %d", i+1), fmt.Sprintf("DOSÍMETRO %d", i+1)),
				PeriodLabel: fieldString(rec.Fields, fmt.Sprintf("PERIODO %d", i+1)),
			}
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// ListDoseRecords fetches the report history with record ids, so the
// accumulation pass can write totals back onto each row.
func (c *Client) ListDoseRecords(ctx context.Context) ([]domain.DoseRecord, error) {
	records, err := c.fetchRecords(ctx, c.cfg.ReportTable)
	if err != nil {
		return nil, fmt.Errorf("dose records: %w", err)
	}

	out := make([]domain.DoseRecord, 0, len(records))
	for _, rec := range records {
		r := domain.DoseRecord{
			ID:            rec.ID,
			Period:        fieldString(rec.Fields, colPeriod...),
			Company:       fieldString(rec.Fields, colCompany...),
			DosimeterCode: fieldString(rec.Fields, colCode...),
			PersonName:    fieldString(rec.Fields, colName...),
			NationalID:    fieldString(rec.Fields, colCedula...),
			ReadingDate:   fieldString(rec.Fields, colDate...),
			DosimeterType: fieldString(rec.Fields, colType...),
			Hp10:          fieldValue(rec.Fields, colHp10...),
			Hp007:         fieldValue(rec.Fields, colHp007...),
			Hp3:           fieldValue(rec.Fields, colHp3...),
		}
		r.IsControl = strings.EqualFold(r.PersonName, domain.ControlName) ||
			strings.EqualFold(strings.TrimSpace(r.Period), domain.PeriodControl)
		out = append(out, r)
	}
	return out, nil
}

// resolveDest picks the store's spelling of a column. An empty result means
// the table does not carry the field and the writer must skip it.
func resolveDest(fields map[string]bool, variants []string) string {
	if len(fields) == 0 {
		return variants[0]
	}
	for _, name := range variants {
		if fields[name] {
			return name
		}
	}
	return ""
}

func (c *Client) hpValue(v domain.Value) interface{} {
	if v.IsPM() {
		if c.cfg.PMAsText {
			return domain.PMLabel
		}
		return nil
	}
	f, _ := v.Dose().Round(2).Float64()
	return f
}

// InsertDoseRecords inserts a processed batch into the report table in
// chunks. Fields the table does not expose are skipped and reported; a
// failed chunk halts submission and the result carries the inserted count.
func (c *Client) InsertDoseRecords(ctx context.Context, records []domain.DoseRecord) (domain.InsertResult, error) {
	res := domain.InsertResult{Total: len(records)}
	if len(records) == 0 {
		return res, nil
	}

	tableFields, err := c.TableFields(ctx, c.cfg.ReportTable)
	if err != nil {
		return res, fmt.Errorf("table fields: %w", err)
	}

	skipped := map[string]bool{}
	setField := func(fields map[string]interface{}, variants []string, value interface{}) {
		dest := resolveDest(tableFields, variants)
		if dest == "" {
			skipped[variants[0]] = true
			return
		}
		fields[dest] = value
	}

	type insertRow struct {
		Fields map[string]interface{} `json:"fields"`
	}
	rows := make([]insertRow, 0, len(records))
	for _, r := range records {
		fields := make(map[string]interface{}, 10)
		setField(fields, colPeriod, r.Period)
		setField(fields, colCompany, r.Company)
		setField(fields, colCode, r.DosimeterCode)
		setField(fields, colName, r.PersonName)
		setField(fields, colCedula, r.NationalID)
		setField(fields, colDate, r.ReadingDate)
		setField(fields, colType, r.DosimeterType)
		setField(fields, colHp10, c.hpValue(r.Hp10))
		setField(fields, colHp007, c.hpValue(r.Hp007))
		setField(fields, colHp3, c.hpValue(r.Hp3))
		rows = append(rows, insertRow{Fields: fields})
	}

	for name := range skipped {
		res.SkippedFields = append(res.SkippedFields, name)
	}
	sort.Strings(res.SkippedFields)

	for start := 0; start < len(rows); start += c.cfg.InsertBatchSize {
		end := start + c.cfg.InsertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		status, body, err := c.postBatch(ctx, c.cfg.ReportTable, rows[start:end])
		if err != nil {
			return res, fmt.Errorf("insert batch at %d: %w", start, err)
		}
		if status != http.StatusOK && status != http.StatusCreated {
			return res, &BatchError{Op: "insert", Done: res.Inserted, Total: res.Total, Status: status, Body: body}
		}
		res.Inserted += end - start
	}

	return res, nil
}

// UpdateAccumulations writes the computed totals back by record id, chunked,
// halting on the first failed chunk.
func (c *Client) UpdateAccumulations(ctx context.Context, updates []domain.AccumulationUpdate) (domain.UpdateResult, error) {
	res := domain.UpdateResult{Total: len(updates)}
	if len(updates) == 0 {
		return res, nil
	}

	tableFields, err := c.TableFields(ctx, c.cfg.ReportTable)
	if err != nil {
		return res, fmt.Errorf("table fields: %w", err)
	}

	setField := func(fields map[string]interface{}, variants []string, v domain.Value) {
		dest := resolveDest(tableFields, variants)
		if dest == "" {
			return
		}
		fields[dest] = c.hpValue(v)
	}

	type updateRow struct {
		ID     string                 `json:"id"`
		Fields map[string]interface{} `json:"fields"`
	}
	rows := make([]updateRow, 0, len(updates))
	for _, u := range updates {
		fields := make(map[string]interface{}, 9)
		setField(fields, colHp10Actual, u.Actual.Hp10)
		setField(fields, colHp007Actual, u.Actual.Hp007)
		setField(fields, colHp3Actual, u.Actual.Hp3)
		setField(fields, colHp10Annual, u.Annual.Hp10)
		setField(fields, colHp007Annual, u.Annual.Hp007)
		setField(fields, colHp3Annual, u.Annual.Hp3)
		setField(fields, colHp10Lifetime, u.Lifetime.Hp10)
		setField(fields, colHp007Lifetime, u.Lifetime.Hp007)
		setField(fields, colHp3Lifetime, u.Lifetime.Hp3)
		rows = append(rows, updateRow{ID: u.RecordID, Fields: fields})
	}

	for start := 0; start < len(rows); start += c.cfg.UpdateBatchSize {
		end := start + c.cfg.UpdateBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		status, body, err := c.postBatch(ctx, c.cfg.ReportTable, rows[start:end])
		if err != nil {
			return res, fmt.Errorf("update batch at %d: %w", start, err)
		}
		if status != http.StatusOK {
			return res, &BatchError{Op: "update", Done: res.Updated, Total: res.Total, Status: status, Body: body}
		}
		res.Updated += end - start
	}

	return res, nil
}
